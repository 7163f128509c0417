// Package pin resolves the pin declarations of a part type into canonical
// pin definitions.
//
// A part type may be layered: a generic "Flash" type declares the pin
// functions, a package-specific subtype adds the pin numbers, a board-level
// subtype overrides a pin type. Each layer contributes partial Specs; Specs
// sharing any alias describe the same physical pin. Resolve merges them into
// one Def per physical pin.
package pin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration reports a malformed pin or interface declaration.
var ErrConfiguration = errors.New("configuration error")

// Spec is one partial pin declaration contributed by one layer of a part
// type's hierarchy.
type Spec struct {
	Names   []string          // aliases; any shared alias merges two specs
	Numbers []string          // package pin numbers, may be empty
	Type    Type              // Unknown means "not declared at this layer"
	Well    string            // name of the power pin this pin is referenced to
	Meta    map[string]string // free-form attributes
}

// Names is the shorthand for a spec that declares nothing but aliases.
func Names(names ...string) Spec {
	return Spec{Names: names}
}

// normalized returns a copy with upper-cased, de-duplicated aliases. The
// receiver is never modified.
func (s Spec) normalized() (Spec, error) {
	names := make([]string, 0, len(s.Names))
	seen := make(map[string]bool, len(s.Names))
	for _, name := range s.Names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return Spec{}, fmt.Errorf("pin: declaration without a name: %w", ErrConfiguration)
	}

	out := s
	out.Names = names
	out.Numbers = append([]string(nil), s.Numbers...)
	out.Well = strings.ToUpper(s.Well)
	return out, nil
}

func (s Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spec(%s", strings.Join(s.Names, "|"))
	if len(s.Numbers) > 0 {
		fmt.Fprintf(&b, ", numbers=%s", strings.Join(s.Numbers, ","))
	}
	if s.Type != Unknown {
		fmt.Fprintf(&b, ", type=%s", s.Type)
	}
	if s.Well != "" {
		fmt.Fprintf(&b, ", well=%s", s.Well)
	}
	b.WriteString(")")
	return b.String()
}
