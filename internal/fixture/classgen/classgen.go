// Package classgen assembles small but well-formed class files. Tests use it
// to produce bytecode that references chosen classes without a Java
// toolchain.
package classgen

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

const (
	accPublic = 0x0001
	accSuper  = 0x0020
	accStatic = 0x0008
)

// Class describes a class file to assemble. Names are dotted; array
// descriptors ("[La/B;") are written unchanged.
type Class struct {
	Name       string
	Super      string // defaults to java.lang.Object
	NoSuper    bool   // java.lang.Object itself
	Interfaces []string
	Fields     []Field
	Methods    []Method
	SourceFile string
	Major      uint16 // defaults to 52
}

type Field struct {
	Name       string
	Descriptor string
}

// Method with a nil Code is written without a Code attribute, as for
// abstract methods.
type Method struct {
	Name       string
	Descriptor string
	Code       []Insn
}

// Insn is one instruction. It is emitted at a known pc so that switch
// padding can be computed.
type Insn struct {
	emit func(p *pool, pc int) []byte
}

func op(b ...byte) Insn {
	return Insn{emit: func(*pool, int) []byte { return b }}
}

func withIndex(opcode byte, idx func(p *pool) uint16, tail ...byte) Insn {
	return Insn{emit: func(p *pool, _ int) []byte {
		i := idx(p)
		return append([]byte{opcode, byte(i >> 8), byte(i)}, tail...)
	}}
}

// Op emits raw bytes.
func Op(b ...byte) Insn { return op(b...) }

func Return() Insn { return op(0xb1) }
func Aload0() Insn { return op(0x2a) }
func Pop() Insn    { return op(0x57) }
func Dup() Insn    { return op(0x59) }

func New(class string) Insn {
	return withIndex(0xbb, func(p *pool) uint16 { return p.class(class) })
}

func CheckCast(class string) Insn {
	return withIndex(0xc0, func(p *pool) uint16 { return p.class(class) })
}

func InstanceOf(class string) Insn {
	return withIndex(0xc1, func(p *pool) uint16 { return p.class(class) })
}

func ANewArray(class string) Insn {
	return withIndex(0xbd, func(p *pool) uint16 { return p.class(class) })
}

func MultiANewArray(descriptor string, dims byte) Insn {
	return withIndex(0xc5, func(p *pool) uint16 { return p.class(descriptor) }, dims)
}

func GetStatic(owner, name, desc string) Insn {
	return withIndex(0xb2, func(p *pool) uint16 { return p.member(tagFieldref, owner, name, desc) })
}

func PutField(owner, name, desc string) Insn {
	return withIndex(0xb5, func(p *pool) uint16 { return p.member(tagFieldref, owner, name, desc) })
}

func InvokeVirtual(owner, name, desc string) Insn {
	return withIndex(0xb6, func(p *pool) uint16 { return p.member(tagMethodref, owner, name, desc) })
}

func InvokeSpecial(owner, name, desc string) Insn {
	return withIndex(0xb7, func(p *pool) uint16 { return p.member(tagMethodref, owner, name, desc) })
}

func InvokeStatic(owner, name, desc string) Insn {
	return withIndex(0xb8, func(p *pool) uint16 { return p.member(tagMethodref, owner, name, desc) })
}

func InvokeInterface(owner, name, desc string, args byte) Insn {
	return withIndex(0xb9, func(p *pool) uint16 { return p.member(tagInterfaceMethodref, owner, name, desc) }, args, 0)
}

func InvokeDynamic(name, desc string) Insn {
	return withIndex(0xba, func(p *pool) uint16 { return p.invokeDynamic(name, desc) }, 0, 0)
}

// LdcLong pushes a long constant, which takes two pool slots.
func LdcLong(v int64) Insn {
	return withIndex(0x14, func(p *pool) uint16 { return p.long(v) })
}

func LdcString(s string) Insn {
	return withIndex(0x13, func(p *pool) uint16 { return p.str(s) })
}

// LdcClass pushes a class literal.
func LdcClass(class string) Insn {
	return withIndex(0x13, func(p *pool) uint16 { return p.class(class) })
}

// TableSwitch emits a tableswitch whose targets all point back at itself.
func TableSwitch(low, high int32) Insn {
	return Insn{emit: func(_ *pool, pc int) []byte {
		var b bytes.Buffer
		b.WriteByte(0xaa)
		for (pc+b.Len())%4 != 0 {
			b.WriteByte(0)
		}
		for _, v := range []int32{0, low, high} {
			binary.Write(&b, binary.BigEndian, v)
		}
		for i := low; i <= high; i++ {
			binary.Write(&b, binary.BigEndian, int32(0))
		}
		return b.Bytes()
	}}
}

func LookupSwitch(keys ...int32) Insn {
	return Insn{emit: func(_ *pool, pc int) []byte {
		var b bytes.Buffer
		b.WriteByte(0xab)
		for (pc+b.Len())%4 != 0 {
			b.WriteByte(0)
		}
		binary.Write(&b, binary.BigEndian, int32(0))
		binary.Write(&b, binary.BigEndian, int32(len(keys)))
		for _, k := range keys {
			binary.Write(&b, binary.BigEndian, k)
			binary.Write(&b, binary.BigEndian, int32(0))
		}
		return b.Bytes()
	}}
}

// WideIinc emits wide iinc on local 1.
func WideIinc() Insn { return op(0xc4, 0x84, 0, 1, 0, 1) }

// Bytes assembles the class file.
func (c Class) Bytes() []byte {
	p := newPool()
	this := p.class(c.Name)
	var super uint16
	if !c.NoSuper {
		s := c.Super
		if s == "" {
			s = "java.lang.Object"
		}
		super = p.class(s)
	}
	ifaces := make([]uint16, len(c.Interfaces))
	for i, name := range c.Interfaces {
		ifaces[i] = p.class(name)
	}

	var fields bytes.Buffer
	u2(&fields, uint16(len(c.Fields)))
	for _, f := range c.Fields {
		u2(&fields, accPublic)
		u2(&fields, p.utf8(f.Name))
		u2(&fields, p.utf8(f.Descriptor))
		u2(&fields, 0)
	}

	var methods bytes.Buffer
	u2(&methods, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		u2(&methods, accPublic|accStatic)
		u2(&methods, p.utf8(m.Name))
		u2(&methods, p.utf8(m.Descriptor))
		if m.Code == nil {
			u2(&methods, 0)
			continue
		}
		var code []byte
		for _, in := range m.Code {
			code = append(code, in.emit(p, len(code))...)
		}
		u2(&methods, 1)
		u2(&methods, p.utf8("Code"))
		u4(&methods, uint32(12+len(code)))
		u2(&methods, 8) // max_stack
		u2(&methods, 8) // max_locals
		u4(&methods, uint32(len(code)))
		methods.Write(code)
		u2(&methods, 0) // exception table
		u2(&methods, 0) // attributes
	}

	var attrs bytes.Buffer
	if c.SourceFile != "" {
		u2(&attrs, 1)
		u2(&attrs, p.utf8("SourceFile"))
		u4(&attrs, 2)
		u2(&attrs, p.utf8(c.SourceFile))
	} else {
		u2(&attrs, 0)
	}

	major := c.Major
	if major == 0 {
		major = 52
	}
	var out bytes.Buffer
	u4(&out, 0xCAFEBABE)
	u2(&out, 0)
	u2(&out, major)
	u2(&out, p.next)
	out.Write(p.buf.Bytes())
	u2(&out, accPublic|accSuper)
	u2(&out, this)
	u2(&out, super)
	u2(&out, uint16(len(ifaces)))
	for _, i := range ifaces {
		u2(&out, i)
	}
	out.Write(fields.Bytes())
	out.Write(methods.Bytes())
	out.Write(attrs.Bytes())
	return out.Bytes()
}

const (
	tagUtf8               = 1
	tagLong               = 5
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagInvokeDynamic      = 18
)

type pool struct {
	buf   bytes.Buffer
	next  uint16
	cache map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, cache: make(map[string]uint16)}
}

func (p *pool) add(key string, slots uint16, b []byte) uint16 {
	if idx, ok := p.cache[key]; ok {
		return idx
	}
	idx := p.next
	p.buf.Write(b)
	p.next += slots
	p.cache[key] = idx
	return idx
}

func (p *pool) utf8(s string) uint16 {
	enc := encodeModifiedUTF8(s)
	b := []byte{tagUtf8, byte(len(enc) >> 8), byte(len(enc))}
	return p.add("utf8:"+s, 1, append(b, enc...))
}

func (p *pool) class(name string) uint16 {
	internal := name
	if !strings.HasPrefix(name, "[") {
		internal = strings.ReplaceAll(name, ".", "/")
	}
	n := p.utf8(internal)
	return p.add("class:"+internal, 1, []byte{tagClass, byte(n >> 8), byte(n)})
}

func (p *pool) str(s string) uint16 {
	n := p.utf8(s)
	return p.add("string:"+s, 1, []byte{tagString, byte(n >> 8), byte(n)})
}

func (p *pool) nameAndType(name, desc string) uint16 {
	n, d := p.utf8(name), p.utf8(desc)
	return p.add("nat:"+name+":"+desc, 1, []byte{tagNameAndType, byte(n >> 8), byte(n), byte(d >> 8), byte(d)})
}

func (p *pool) member(tag byte, owner, name, desc string) uint16 {
	c := p.class(owner)
	nt := p.nameAndType(name, desc)
	key := string(rune('0'+tag)) + ":" + owner + "." + name + ":" + desc
	return p.add(key, 1, []byte{tag, byte(c >> 8), byte(c), byte(nt >> 8), byte(nt)})
}

func (p *pool) invokeDynamic(name, desc string) uint16 {
	nt := p.nameAndType(name, desc)
	return p.add("indy:"+name+":"+desc, 1, []byte{tagInvokeDynamic, 0, 0, byte(nt >> 8), byte(nt)})
}

func (p *pool) long(v int64) uint16 {
	b := make([]byte, 9)
	b[0] = tagLong
	binary.BigEndian.PutUint64(b[1:], uint64(v))
	return p.add("long:"+string(b[1:]), 2, b)
}

func encodeModifiedUTF8(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, byte(0xC0|u>>6), byte(0x80|u&0x3F))
		default:
			out = append(out, byte(0xE0|u>>12), byte(0x80|(u>>6)&0x3F), byte(0x80|u&0x3F))
		}
	}
	return out
}

func u2(b *bytes.Buffer, v uint16) {
	b.Write([]byte{byte(v >> 8), byte(v)})
}

func u4(b *bytes.Buffer, v uint32) {
	b.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
