package lmp

import "strings"

// Kind tells how a quantity was declared, which decides its reference prefix.
type Kind int

const (
	Value Kind = iota
	ComputedValue
)

func (k Kind) Prefix() string {
	switch k {
	case ComputedValue:
		return "c_"
	default:
		return "v_"
	}
}

func (k Kind) String() string {
	switch k {
	case ComputedValue:
		return "compute"
	default:
		return "variable"
	}
}

// Ref is anything that carries an engine identifier.
type Ref interface {
	ID() string
}

// Name is a bare logical name usable wherever a Ref is expected.
type Name string

func (n Name) ID() string { return string(n) }

// Registry maps logical names to the kind they were declared with.
type Registry struct {
	kinds map[string]Kind
	order []string
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register records name under kind. A name can be registered once.
func (r *Registry) Register(name string, kind Kind) error {
	if _, ok := r.kinds[name]; ok {
		return Duplicate("registry", name)
	}
	r.kinds[name] = kind
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Kind(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the prefixed reference for ref, e.g. "c_temp_liq".
func (r *Registry) Resolve(ref Ref) (string, error) {
	id := ref.ID()
	kind, ok := r.kinds[id]
	if !ok {
		return "", Unknown("registry", id)
	}
	return kind.Prefix() + id, nil
}

func (r *Registry) ResolveMany(refs ...Ref) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		s, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Join resolves refs and joins them with single spaces, the form averaging
// and output commands take their value lists in.
func (r *Registry) Join(refs ...Ref) (string, error) {
	out, err := r.ResolveMany(refs...)
	if err != nil {
		return "", err
	}
	return strings.Join(out, " "), nil
}

// Names converts bare strings into refs.
func Names(names ...string) []Ref {
	refs := make([]Ref, len(names))
	for i, n := range names {
		refs[i] = Name(n)
	}
	return refs
}
