package classfile

import "encoding/binary"

// Opcodes whose operands name a class, directly or through a member
// reference.
const (
	opGetstatic       = 0xb2
	opPutstatic       = 0xb3
	opGetfield        = 0xb4
	opPutfield        = 0xb5
	opInvokevirtual   = 0xb6
	opInvokespecial   = 0xb7
	opInvokestatic    = 0xb8
	opInvokeinterface = 0xb9
	opInvokedynamic   = 0xba
	opNew             = 0xbb
	opAnewarray       = 0xbd
	opCheckcast       = 0xc0
	opInstanceof      = 0xc1
	opMultianewarray  = 0xc5

	opTableswitch  = 0xaa
	opLookupswitch = 0xab
	opWide         = 0xc4
	opIinc         = 0x84
)

const (
	operandsVariable = -1
	operandsInvalid  = -2
)

// operandLen holds the operand byte count following each opcode.
var operandLen = buildOperandLen()

func buildOperandLen() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = operandsInvalid
	}
	set := func(lo, hi int, n int8) {
		for op := lo; op <= hi; op++ {
			t[op] = n
		}
	}
	set(0x00, 0x0f, 0) // nop, constants
	set(0x10, 0x10, 1) // bipush
	set(0x11, 0x11, 2) // sipush
	set(0x12, 0x12, 1) // ldc
	set(0x13, 0x14, 2) // ldc_w, ldc2_w
	set(0x15, 0x19, 1) // xload
	set(0x1a, 0x35, 0) // xload_n, xaload
	set(0x36, 0x3a, 1) // xstore
	set(0x3b, 0x83, 0) // xstore_n, xastore, stack, arithmetic
	set(0x84, 0x84, 2) // iinc
	set(0x85, 0x98, 0) // conversions, comparisons
	set(0x99, 0xa8, 2) // branches, goto, jsr
	set(0xa9, 0xa9, 1) // ret
	set(0xaa, 0xab, operandsVariable)
	set(0xac, 0xb1, 0) // returns
	set(0xb2, 0xb8, 2) // field access, invoke
	set(0xb9, 0xba, 4) // invokeinterface, invokedynamic
	set(0xbb, 0xbb, 2) // new
	set(0xbc, 0xbc, 1) // newarray
	set(0xbd, 0xbd, 2) // anewarray
	set(0xbe, 0xbf, 0) // arraylength, athrow
	set(0xc0, 0xc1, 2) // checkcast, instanceof
	set(0xc2, 0xc3, 0) // monitorenter, monitorexit
	set(0xc4, 0xc4, operandsVariable)
	set(0xc5, 0xc5, 3) // multianewarray
	set(0xc6, 0xc7, 2) // ifnull, ifnonnull
	set(0xc8, 0xc9, 4) // goto_w, jsr_w
	return t
}

// codeReferences walks the instruction stream of m and calls add with the
// class named by every field, method and type instruction.
func (cf *ClassFile) codeReferences(m *Method, add func(string)) error {
	code := m.Code
	for pc := 0; pc < len(code); {
		op := code[pc]
		off := m.CodeOffset + pc
		n := int(operandLen[op])
		switch n {
		case operandsInvalid:
			return formatErrorf(off, "method %s: invalid opcode %#02x at pc %d", m.Name, op, pc)
		case operandsVariable:
			var err error
			if n, err = variableOperandLen(code, pc, off); err != nil {
				return err
			}
		}
		if pc+1+n > len(code) {
			return formatErrorf(off, "method %s: truncated instruction %#02x at pc %d", m.Name, op, pc)
		}

		switch op {
		case opGetstatic, opPutstatic, opGetfield, opPutfield,
			opInvokevirtual, opInvokespecial, opInvokestatic, opInvokeinterface:
			owner, err := cf.memberOwner(binary.BigEndian.Uint16(code[pc+1:]), off)
			if err != nil {
				return err
			}
			add(owner)
		case opNew, opAnewarray, opCheckcast, opInstanceof, opMultianewarray:
			name, err := cf.className(binary.BigEndian.Uint16(code[pc+1:]), off)
			if err != nil {
				return err
			}
			add(name)
		}
		pc += 1 + n
	}
	return nil
}

// variableOperandLen sizes the operands of tableswitch, lookupswitch and
// wide at pc.
func variableOperandLen(code []byte, pc, off int) (int, error) {
	op := code[pc]
	if op == opWide {
		if pc+1 >= len(code) {
			return 0, formatErrorf(off, "truncated wide at pc %d", pc)
		}
		if code[pc+1] == opIinc {
			return 5, nil
		}
		return 3, nil
	}

	// Switch operands start at the next 4-byte boundary.
	pad := (4 - (pc+1)%4) % 4
	base := pc + 1 + pad
	header := 8
	if op == opTableswitch {
		header = 12
	}
	if base+header > len(code) {
		return 0, formatErrorf(off, "truncated switch at pc %d", pc)
	}
	var n int
	if op == opTableswitch {
		low := int32(binary.BigEndian.Uint32(code[base+4:]))
		high := int32(binary.BigEndian.Uint32(code[base+8:]))
		if high < low {
			return 0, formatErrorf(off, "tableswitch at pc %d: high %d < low %d", pc, high, low)
		}
		n = 12 + 4*(int(high)-int(low)+1)
	} else {
		pairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if pairs < 0 {
			return 0, formatErrorf(off, "lookupswitch at pc %d: negative pair count %d", pc, pairs)
		}
		n = 8 + 8*int(pairs)
	}
	return pad + n, nil
}
