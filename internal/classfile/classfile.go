// Package classfile decodes compiled Java classes far enough to list the
// other classes they reference: the super class, the interfaces, and every
// class named by a field, method or type instruction in a method body.
package classfile

import (
	"github.com/1homsi/jarcheck/internal/typename"
)

// Magic is the first four bytes of every class file.
const Magic = 0xCAFEBABE

const codeAttribute = "Code"

// ClassFile is the decoded subset of a class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	// Pool is indexed 1..len(Pool)-1; Pool[0] is unused.
	Pool        []Constant
	AccessFlags uint16
	ThisClass   uint16
	SuperClass  uint16
	Interfaces  []uint16
	Methods     []Method
}

// Method is a method declaration. Code is nil for abstract and native
// methods.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Code        []byte
	// CodeOffset is the position of Code[0] in the class-file bytes.
	CodeOffset int
}

// Parse decodes data. Any deviation from the class-file layout is reported
// as a *FormatError.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{b: data}
	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, formatErrorf(0, "bad magic %#08x", magic)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.Pool, err = readConstantPool(r); err != nil {
		return nil, err
	}
	if cf.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.ThisClass, err = r.u2(); err != nil {
		return nil, err
	}
	if _, err := cf.className(cf.ThisClass, r.off-2); err != nil {
		return nil, err
	}
	if cf.SuperClass, err = r.u2(); err != nil {
		return nil, err
	}

	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]uint16, n)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.u2(); err != nil {
			return nil, err
		}
	}

	if err := skipFields(r); err != nil {
		return nil, err
	}
	if cf.Methods, err = cf.readMethods(r); err != nil {
		return nil, err
	}
	if err := skipAttributes(r); err != nil {
		return nil, err
	}
	if r.off != len(data) {
		return nil, formatErrorf(r.off, "%d trailing bytes", len(data)-r.off)
	}
	return cf, nil
}

// Name returns the dotted name of the class itself.
func (cf *ClassFile) Name() string {
	name, _ := cf.className(cf.ThisClass, -1)
	return name
}

// SuperName returns the dotted name of the super class, or "" when the class
// has none (java.lang.Object and module descriptors).
func (cf *ClassFile) SuperName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.className(cf.SuperClass, -1)
}

func skipFields(r *reader) error {
	n, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		// access_flags, name_index, descriptor_index
		if err := r.skip(6); err != nil {
			return err
		}
		if err := skipAttributes(r); err != nil {
			return err
		}
	}
	return nil
}

func skipAttributes(r *reader) error {
	n, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		if err := r.skip(2); err != nil {
			return err
		}
		size, err := r.u4()
		if err != nil {
			return err
		}
		if err := r.skip(int(size)); err != nil {
			return err
		}
	}
	return nil
}

func (cf *ClassFile) readMethods(r *reader) ([]Method, error) {
	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]Method, n)
	for i := range methods {
		m := &methods[i]
		if m.AccessFlags, err = r.u2(); err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		if m.Name, err = cf.utf8(nameIdx, r.off-2); err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		if m.Descriptor, err = cf.utf8(descIdx, r.off-2); err != nil {
			return nil, err
		}
		if err := cf.readMethodAttributes(r, m); err != nil {
			return nil, err
		}
	}
	return methods, nil
}

func (cf *ClassFile) readMethodAttributes(r *reader, m *Method) error {
	n, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return err
		}
		name, err := cf.utf8(nameIdx, r.off-2)
		if err != nil {
			return err
		}
		size, err := r.u4()
		if err != nil {
			return err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return err
		}
		if name != codeAttribute {
			continue
		}
		// max_stack, max_locals, code_length, code, ...
		br := &reader{b: body}
		if err := br.skip(4); err != nil {
			return formatErrorf(r.off-len(body), "method %s: short Code attribute", m.Name)
		}
		codeLen, err := br.u4()
		if err != nil {
			return formatErrorf(r.off-len(body), "method %s: short Code attribute", m.Name)
		}
		start := br.off
		code, err := br.bytes(int(codeLen))
		if err != nil {
			return formatErrorf(r.off-len(body)+start, "method %s: code length %d exceeds attribute", m.Name, codeLen)
		}
		m.Code = code
		m.CodeOffset = r.off - len(body) + start
	}
	return nil
}

// entry returns pool entry idx, which must carry tag want. off is the input
// offset blamed in the error, or -1 when unknown.
func (cf *ClassFile) entry(idx uint16, want Tag, off int) (Constant, error) {
	if idx == 0 || int(idx) >= len(cf.Pool) {
		return Constant{}, formatErrorf(off, "constant index %d out of range 1..%d", idx, len(cf.Pool)-1)
	}
	c := cf.Pool[idx]
	if c.Tag != want {
		return Constant{}, formatErrorf(off, "constant #%d is %s, want %s", idx, c.Tag, want)
	}
	return c, nil
}

func (cf *ClassFile) utf8(idx uint16, off int) (string, error) {
	c, err := cf.entry(idx, TagUtf8, off)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// className resolves a Class entry to its normalized dotted name.
func (cf *ClassFile) className(idx uint16, off int) (string, error) {
	c, err := cf.entry(idx, TagClass, off)
	if err != nil {
		return "", err
	}
	raw, err := cf.utf8(c.NameIndex, off)
	if err != nil {
		return "", err
	}
	return typename.Normalize(raw), nil
}

// memberOwner resolves a Fieldref, Methodref or InterfaceMethodref entry to
// the dotted name of the class that declares the member.
func (cf *ClassFile) memberOwner(idx uint16, off int) (string, error) {
	if idx == 0 || int(idx) >= len(cf.Pool) {
		return "", formatErrorf(off, "constant index %d out of range 1..%d", idx, len(cf.Pool)-1)
	}
	c := cf.Pool[idx]
	if !c.Tag.IsMemberRef() {
		return "", formatErrorf(off, "constant #%d is %s, want a member reference", idx, c.Tag)
	}
	return cf.className(c.ClassIndex, off)
}
