package pin

import "fmt"

// Layer is the pin list declared at one level of a part type hierarchy.
type Layer struct {
	Name  string // type name, used in error messages
	Specs []Spec
}

// Resolve merges the specs of all layers into one Def per physical pin.
// Layers must be ordered most-derived first. Specs sharing an alias, directly
// or through a chain of other specs, end up in the same Def.
//
// Defs are returned in the order their first spec appears. Within a Def the
// nearest layer wins for Type, Well and each Meta key, names keep first-seen
// order and numbers are concatenated most-derived first.
func Resolve(layers []Layer) ([]Def, error) {
	var specs []Spec
	for _, layer := range layers {
		for i, spec := range layer.Specs {
			norm, err := spec.normalized()
			if err != nil {
				return nil, fmt.Errorf("pin: %s pin #%d: %w", layer.Name, i+1, err)
			}
			specs = append(specs, norm)
		}
	}

	aliases := newAliasSet()
	for _, spec := range specs {
		first := spec.Names[0]
		aliases.add(first)
		for _, name := range spec.Names[1:] {
			aliases.add(name)
			aliases.union(first, name)
		}
	}

	// Group specs by their root alias, keeping the order in which groups
	// were first seen.
	var order []string
	groups := make(map[string][]Spec)
	for _, spec := range specs {
		root := aliases.find(spec.Names[0])
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], spec)
	}

	defs := make([]Def, 0, len(order))
	for _, root := range order {
		defs = append(defs, merge(groups[root]))
	}
	return defs, nil
}

// merge collapses the specs of one physical pin. specs are ordered most-derived
// first.
func merge(specs []Spec) Def {
	var def Def
	seen := make(map[string]bool)
	for _, spec := range specs {
		for _, name := range spec.Names {
			if !seen[name] {
				seen[name] = true
				def.Names = append(def.Names, name)
			}
		}
		def.Numbers = append(def.Numbers, spec.Numbers...)

		if def.Type == Unknown {
			def.Type = spec.Type
		}
		if def.Well == "" {
			def.Well = spec.Well
		}
		for k, v := range spec.Meta {
			if def.Meta == nil {
				def.Meta = make(map[string]string)
			}
			if _, ok := def.Meta[k]; !ok {
				def.Meta[k] = v
			}
		}
	}
	return def
}

// aliasSet is a union-find over alias names.
type aliasSet struct {
	parent map[string]string
	rank   map[string]int
}

func newAliasSet() *aliasSet {
	return &aliasSet{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func (s *aliasSet) add(name string) {
	if _, ok := s.parent[name]; !ok {
		s.parent[name] = name
		s.rank[name] = 0
	}
}

// find returns the representative alias, compressing the path on the way.
func (s *aliasSet) find(name string) string {
	root := name
	for s.parent[root] != root {
		root = s.parent[root]
	}

	current := name
	for current != root {
		next := s.parent[current]
		s.parent[current] = root
		current = next
	}
	return root
}

func (s *aliasSet) union(a, b string) {
	rootA := s.find(a)
	rootB := s.find(b)
	if rootA == rootB {
		return
	}

	// Union by rank
	if s.rank[rootA] < s.rank[rootB] {
		s.parent[rootA] = rootB
	} else if s.rank[rootA] > s.rank[rootB] {
		s.parent[rootB] = rootA
	} else {
		s.parent[rootB] = rootA
		s.rank[rootA]++
	}
}
