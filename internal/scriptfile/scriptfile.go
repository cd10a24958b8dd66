// Package scriptfile describes a whole engine script in YAML and builds it
// into a session.
//
// Arguments written as "@name" are replaced by the prefixed reference of a
// previously declared variable or compute ("@temp_liq" becomes
// "c_temp_liq"). Group and member order follow the document.
package scriptfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/lmpkit/internal/lmp"
	"github.com/san-kum/lmpkit/internal/session"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Header   string        `yaml:"header"`
	Groups   GroupSpecs    `yaml:"groups"`
	Sections []SectionSpec `yaml:"sections"`
}

type SectionSpec struct {
	Name    string      `yaml:"name"`
	Entries []EntrySpec `yaml:"entries"`
}

// EntrySpec is either an attribute (Set/Value) or a labeled list of
// commands. GroupDefinitions appends every group-defining command.
type EntrySpec struct {
	Set              string        `yaml:"set"`
	Value            any           `yaml:"value"`
	Label            string        `yaml:"label"`
	GroupDefinitions bool          `yaml:"group_definitions"`
	Commands         []CommandSpec `yaml:"commands"`
}

// CommandSpec names at most one entity kind; with none it is a plain
// command given by Keyword.
type CommandSpec struct {
	Keyword  string `yaml:"keyword"`
	Group    string `yaml:"group"`
	Fix      string `yaml:"fix"`
	Compute  string `yaml:"compute"`
	Dump     string `yaml:"dump"`
	Variable string `yaml:"variable"`
	Region   string `yaml:"region"`
	Molecule string `yaml:"molecule"`
	Unfix    string `yaml:"unfix"`
	Args     []any  `yaml:"args"`
}

// GroupSpecs keeps the document order of a method -> id -> members map.
type GroupSpecs []session.GroupSpec

func (g *GroupSpecs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: groups must be a mapping", node.Line)
	}
	specs := make(GroupSpecs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		method, body := node.Content[i], node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: groups of %s must be a mapping", body.Line, method.Value)
		}
		spec := session.GroupSpec{Method: method.Value}
		for j := 0; j+1 < len(body.Content); j += 2 {
			id, members := body.Content[j], body.Content[j+1]
			mb := session.Membership{ID: id.Value}
			switch members.Kind {
			case yaml.SequenceNode:
				var list []any
				if err := members.Decode(&list); err != nil {
					return err
				}
				mb.Members = list
			case yaml.ScalarNode:
				if members.Tag != "!!null" {
					var v any
					if err := members.Decode(&v); err != nil {
						return err
					}
					mb.Members = []any{v}
				}
			default:
				return fmt.Errorf("line %d: members of %s must be a scalar or a list", members.Line, id.Value)
			}
			spec.Groups = append(spec.Groups, mb)
		}
		specs = append(specs, spec)
	}
	*g = specs
	return nil
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Build creates a manager and fills it from the document.
func (d *Document) Build(opts session.Options) (*session.Manager, error) {
	if opts.Header == "" {
		opts.Header = d.Header
	}
	m := session.New(opts)
	if _, err := m.CreateGroups(d.Groups); err != nil {
		return nil, err
	}
	for _, ss := range d.Sections {
		sec, err := m.AddSection(ss.Name)
		if err != nil {
			return nil, err
		}
		for _, es := range ss.Entries {
			if es.Set != "" {
				if err := sec.Set(es.Set, es.Value); err != nil {
					return nil, err
				}
				continue
			}
			stmts := make([]lmp.Statement, 0, len(es.Commands))
			if es.GroupDefinitions {
				stmts = append(stmts, m.Definitions()...)
			}
			for _, cs := range es.Commands {
				st, err := cs.build(m)
				if err != nil {
					return nil, fmt.Errorf("section %s, %q: %w", ss.Name, es.Label, err)
				}
				stmts = append(stmts, st)
			}
			if err := sec.Apply(es.Label, stmts...); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (c CommandSpec) build(m *session.Manager) (lmp.Statement, error) {
	args, err := resolveArgs(m.Registry(), c.Args)
	if err != nil {
		return nil, err
	}
	u := m.Universe()

	group := func() (*lmp.Group, error) {
		id := c.Group
		if id == "" {
			id = session.AllGroup
		}
		g, ok := m.Group(id)
		if !ok {
			return nil, lmp.Unknown("group", id)
		}
		return g, nil
	}

	switch {
	case c.Fix != "":
		g, err := group()
		if err != nil {
			return nil, err
		}
		return g.Fix(c.Fix, args...)
	case c.Compute != "":
		g, err := group()
		if err != nil {
			return nil, err
		}
		return g.Compute(c.Compute, args...)
	case c.Dump != "":
		g, err := group()
		if err != nil {
			return nil, err
		}
		return g.Dump(c.Dump, args...)
	case c.Variable != "":
		return u.Variable(c.Variable, args...)
	case c.Region != "":
		return u.Region(c.Region, args...)
	case c.Molecule != "":
		return u.Molecule(c.Molecule, args...)
	case c.Unfix != "":
		cancel, ok := u.Lookup(lmp.CancelPrefix + c.Unfix)
		if !ok {
			return nil, lmp.Unknown("fix", c.Unfix)
		}
		return cancel, nil
	case c.Keyword == "":
		return nil, fmt.Errorf("command without keyword")
	case c.Group != "":
		g, err := group()
		if err != nil {
			return nil, err
		}
		return g.Command(c.Keyword, args...), nil
	default:
		return u.Command(c.Keyword, args...), nil
	}
}

func resolveArgs(reg *lmp.Registry, args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok || !strings.HasPrefix(s, "@") {
			out[i] = a
			continue
		}
		ref, err := reg.Resolve(lmp.Name(strings.TrimPrefix(s, "@")))
		if err != nil {
			return nil, err
		}
		out[i] = ref
	}
	return out, nil
}
