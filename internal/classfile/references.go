package classfile

import "sort"

// References returns the sorted, deduplicated dotted names of every class
// cf refers to through its super class, its interfaces, and the field,
// method and type instructions of its methods. Array types are reduced to
// their component type and the class's own name is left out.
func (cf *ClassFile) References() ([]string, error) {
	self := cf.Name()
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && name != self {
			seen[name] = true
		}
	}

	super, err := cf.SuperName()
	if err != nil {
		return nil, err
	}
	add(super)
	for _, idx := range cf.Interfaces {
		name, err := cf.className(idx, -1)
		if err != nil {
			return nil, err
		}
		add(name)
	}
	for i := range cf.Methods {
		if cf.Methods[i].Code == nil {
			continue
		}
		if err := cf.codeReferences(&cf.Methods[i], add); err != nil {
			return nil, err
		}
	}

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs, nil
}

// Decode parses data and returns its references. It has no side effects and
// does not retain data.
func Decode(data []byte) ([]string, error) {
	cf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cf.References()
}
