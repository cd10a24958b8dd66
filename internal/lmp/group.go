package lmp

// CancelPrefix prefixes the name a fix's unfix command is stored under.
const CancelPrefix = "cancel_"

// Group is a named atom subset. Commands it mints carry the group ID as
// their first argument; fixes, computes and dumps are named {name}_{group}.
type Group struct {
	u          *Universe
	id         string
	definition *Command
	commands   *catalog[*Command]
	fixes      *catalog[*Fix]
	computes   *catalog[*Compute]
	dumps      *catalog[*Dump]
}

// NewGroup builds a group scope. With a method and members it defines the
// group (`group {id} {method} {members...}`); with a method alone it
// defines an empty group (`group {id} type 0`); with neither it relies on a
// group the engine already knows, such as "all".
func NewGroup(u *Universe, id, method string, members ...any) *Group {
	g := &Group{
		u:        u,
		id:       id,
		commands: newCatalog[*Command]("command"),
		fixes:    newCatalog[*Fix]("fix"),
		computes: newCatalog[*Compute]("compute"),
		dumps:    newCatalog[*Dump]("dump"),
	}
	if method == "" {
		return g
	}
	tokens := flatten(members)
	if len(tokens) > 0 {
		g.definition = NewScopedCommand("group", id, append([]any{method}, tokens...)...)
	} else {
		g.definition = NewScopedCommand("group", id, "type", 0)
	}
	g.commands.put("group", g.definition)
	return g
}

func (g *Group) ID() string { return g.id }

// Definition returns the group-defining command, or nil.
func (g *Group) Definition() *Command { return g.definition }

func (g *Group) Universe() *Universe { return g.u }

// FullID namespaces name by the group.
func (g *Group) FullID(name string) string {
	if g.id == "" {
		return name
	}
	return name + "_" + g.id
}

// Command mints a scoped command stored under keyword+ordinal.
func (g *Group) Command(keyword string, args ...any) *Command {
	c, _ := g.CommandAs("", keyword, args...)
	return c
}

func (g *Group) CommandAs(name, keyword string, args ...any) (*Command, error) {
	name, err := g.commands.claim(name, keyword)
	if err != nil {
		return nil, err
	}
	c := NewScopedCommand(keyword, g.id, args...)
	g.commands.put(name, c)
	return c, nil
}

// Compute mints `compute {name}_{group} {group} args...` and registers it
// as a computed value.
func (g *Group) Compute(name string, args ...any) (*Compute, error) {
	name, err := g.computes.claim(name, "compute")
	if err != nil {
		return nil, err
	}
	id := g.FullID(name)
	if err := g.u.reg.Register(id, ComputedValue); err != nil {
		return nil, err
	}
	c := &Compute{Command: declare("compute", id, g.id, args), u: g.u, ref: ComputedValue.Prefix() + id}
	g.computes.put(name, c)
	return c, nil
}

func (g *Group) Dump(name string, args ...any) (*Dump, error) {
	name, err := g.dumps.claim(name, "dump")
	if err != nil {
		return nil, err
	}
	d := &Dump{Command: declare("dump", g.FullID(name), g.id, args), u: g.u}
	g.dumps.put(name, d)
	return d, nil
}

// Fix mints `fix {name}_{group} {group} args...` together with its
// `unfix` command, stored in the universe as cancel_{id}.
func (g *Group) Fix(name string, args ...any) (*Fix, error) {
	name, err := g.fixes.claim(name, "fix")
	if err != nil {
		return nil, err
	}
	id := g.FullID(name)
	unfix, err := g.u.CommandAs(CancelPrefix+id, "unfix", id)
	if err != nil {
		return nil, err
	}
	f := &Fix{Command: declare("fix", id, g.id, args), u: g.u, unfix: unfix}
	g.fixes.put(name, f)
	return f, nil
}

func (g *Group) LookupFix(name string) (*Fix, bool) { return g.fixes.get(name) }

func (g *Group) LookupCompute(name string) (*Compute, bool) { return g.computes.get(name) }

func (g *Group) LookupDump(name string) (*Dump, bool) { return g.dumps.get(name) }

func (g *Group) Fixes() []*Fix { return g.fixes.values() }

func (g *Group) Computes() []*Compute { return g.computes.values() }

func (g *Group) Dumps() []*Dump { return g.dumps.values() }

func flatten(members []any) []any {
	out := make([]any, 0, len(members))
	for _, m := range members {
		switch t := m.(type) {
		case nil:
		case []any:
			out = append(out, flatten(t)...)
		default:
			if s := Token(t); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
