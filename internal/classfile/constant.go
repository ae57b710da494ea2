package classfile

import (
	"fmt"
	"unicode/utf16"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

var tagNames = map[Tag]string{
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagDynamic:            "Dynamic",
	TagInvokeDynamic:      "InvokeDynamic",
	TagModule:             "Module",
	TagPackage:            "Package",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	if t == 0 {
		return "unusable"
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// IsMemberRef reports whether t is a field, method or interface method
// reference.
func (t Tag) IsMemberRef() bool {
	return t == TagFieldref || t == TagMethodref || t == TagInterfaceMethodref
}

// Constant is one constant pool entry. Only the fields relevant to its Tag
// are set. The slot following a Long or Double is a zero Constant.
type Constant struct {
	Tag Tag

	// Text of a Utf8 entry.
	Text string

	// Class, Module, Package and NameAndType name; String value.
	NameIndex uint16
	// NameAndType and MethodType descriptor.
	DescriptorIndex uint16
	// Owner of a Fieldref, Methodref or InterfaceMethodref.
	ClassIndex uint16
	// Member refs, Dynamic and InvokeDynamic.
	NameAndTypeIndex uint16
	// MethodHandle target.
	RefKind  uint8
	RefIndex uint16
}

func readConstantPool(r *reader) ([]Constant, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, formatErrorf(r.off-2, "constant pool count is zero")
	}
	pool := make([]Constant, count)
	for i := 1; i < int(count); i++ {
		start := r.off
		t, err := r.u1()
		if err != nil {
			return nil, err
		}
		c := Constant{Tag: Tag(t)}
		switch c.Tag {
		case TagUtf8:
			n, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			if c.Text, err = decodeModifiedUTF8(raw); err != nil {
				return nil, formatErrorf(start, "constant #%d: %v", i, err)
			}
		case TagInteger, TagFloat:
			err = r.skip(4)
		case TagLong, TagDouble:
			if i+1 >= int(count) {
				return nil, formatErrorf(start, "constant #%d: 8-byte %s in last pool slot", i, c.Tag)
			}
			err = r.skip(8)
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			if c.Tag == TagMethodType {
				c.DescriptorIndex, err = r.u2()
			} else {
				c.NameIndex, err = r.u2()
			}
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			if c.ClassIndex, err = r.u2(); err == nil {
				c.NameAndTypeIndex, err = r.u2()
			}
		case TagNameAndType:
			if c.NameIndex, err = r.u2(); err == nil {
				c.DescriptorIndex, err = r.u2()
			}
		case TagMethodHandle:
			if c.RefKind, err = r.u1(); err == nil {
				c.RefIndex, err = r.u2()
			}
		case TagDynamic, TagInvokeDynamic:
			// bootstrap method attribute index, unused here
			if err = r.skip(2); err == nil {
				c.NameAndTypeIndex, err = r.u2()
			}
		default:
			return nil, formatErrorf(start, "constant #%d: unknown tag %d", i, t)
		}
		if err != nil {
			return nil, err
		}
		pool[i] = c
		if c.Tag == TagLong || c.Tag == TagDouble {
			i++
		}
	}
	return pool, nil
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: NUL is encoded in two
// bytes and supplementary characters as surrogate pairs of 3-byte sequences.
func decodeModifiedUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c != 0 && c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("malformed 2-byte sequence at %d", i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("malformed 3-byte sequence at %d", i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("invalid byte %#02x at %d", c, i)
		}
	}
	return string(utf16.Decode(units)), nil
}
