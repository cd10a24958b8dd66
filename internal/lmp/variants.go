package lmp

// Fix is a fix command bound to a group. Its cancel command exists from the
// moment the fix is built but is only emitted when the caller asks for it.
type Fix struct {
	*Command
	u     *Universe
	unfix *Command
}

// Unfix returns the `unfix {id}` command for this fix.
func (f *Fix) Unfix() *Command { return f.unfix }

// Modify mints `fix_modify {id} args...` in the universe.
func (f *Fix) Modify(args ...any) *Command {
	return f.u.Command("fix_modify", append([]any{f.ID()}, args...)...)
}

// Compute is a compute command. It is registered as a computed value.
type Compute struct {
	*Command
	u   *Universe
	ref string
}

// Ref is the reference used in expressions, e.g. "c_temp_liq".
func (c *Compute) Ref() string { return c.ref }

// Modify mints `compute_modify {id} args...` in the universe.
func (c *Compute) Modify(args ...any) *Command {
	return c.u.Command("compute_modify", append([]any{c.ID()}, args...)...)
}

type Dump struct {
	*Command
	u *Universe
}

// Modify mints `dump_modify {id} args...` in the universe.
func (d *Dump) Modify(args ...any) *Command {
	return d.u.Command("dump_modify", append([]any{d.ID()}, args...)...)
}

// Variable is registered as a value; Ref gives "v_{id}".
type Variable struct {
	*Command
	ref string
}

func (v *Variable) Ref() string { return v.ref }

type Region struct {
	*Command
}

type Molecule struct {
	*Command
}

func declare(keyword, id, scope string, args []any) *Command {
	c := NewCommand(keyword, args...)
	c.id = id
	c.scope = scope
	return c
}
