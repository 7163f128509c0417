package pin

// Def is a resolved pin of a part type. It is shared by every instance of
// the type and must not be modified.
type Def struct {
	Names   []string
	Numbers []string
	Type    Type
	Well    string
	Meta    map[string]string
}

// Name returns the primary alias.
func (d *Def) Name() string {
	return d.Names[0]
}

// Number returns the first declared pin number, or "" when none was declared.
func (d *Def) Number() string {
	if len(d.Numbers) == 0 {
		return ""
	}
	return d.Numbers[0]
}

// HasName reports whether name is one of the aliases. name must already be
// upper-case.
func (d *Def) HasName(name string) bool {
	for _, n := range d.Names {
		if n == name {
			return true
		}
	}
	return false
}

// IsPower reports whether the pin can serve as a voltage well.
func (d *Def) IsPower() bool {
	return d.Type.IsPower()
}

func (d *Def) String() string {
	return "Pin " + d.Name()
}
