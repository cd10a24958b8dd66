package lmp

// Universe mints commands that are not tied to any group.
type Universe struct {
	reg       *Registry
	commands  *catalog[*Command]
	molecules *catalog[*Molecule]
	regions   *catalog[*Region]
	variables *catalog[*Variable]
}

func NewUniverse(reg *Registry) *Universe {
	return &Universe{
		reg:       reg,
		commands:  newCatalog[*Command]("command"),
		molecules: newCatalog[*Molecule]("molecule"),
		regions:   newCatalog[*Region]("region"),
		variables: newCatalog[*Variable]("variable"),
	}
}

func (u *Universe) Registry() *Registry { return u.reg }

// Command mints a plain command stored under keyword+ordinal.
func (u *Universe) Command(keyword string, args ...any) *Command {
	c, _ := u.CommandAs("", keyword, args...)
	return c
}

// CommandAs mints a plain command stored under name.
func (u *Universe) CommandAs(name, keyword string, args ...any) (*Command, error) {
	name, err := u.commands.claim(name, keyword)
	if err != nil {
		return nil, err
	}
	c := NewCommand(keyword, args...)
	u.commands.put(name, c)
	return c, nil
}

func (u *Universe) Molecule(id string, args ...any) (*Molecule, error) {
	id, err := u.molecules.claim(id, "molecule")
	if err != nil {
		return nil, err
	}
	m := &Molecule{Command: declare("molecule", id, "", args)}
	u.molecules.put(id, m)
	return m, nil
}

func (u *Universe) Region(id string, args ...any) (*Region, error) {
	id, err := u.regions.claim(id, "region")
	if err != nil {
		return nil, err
	}
	r := &Region{Command: declare("region", id, "", args)}
	u.regions.put(id, r)
	return r, nil
}

// Variable mints a variable and registers it as a value.
func (u *Universe) Variable(id string, args ...any) (*Variable, error) {
	id, err := u.variables.claim(id, "variable")
	if err != nil {
		return nil, err
	}
	if err := u.reg.Register(id, Value); err != nil {
		return nil, err
	}
	v := &Variable{Command: declare("variable", id, "", args), ref: Value.Prefix() + id}
	u.variables.put(id, v)
	return v, nil
}

// Lookup returns the plain command stored under name.
func (u *Universe) Lookup(name string) (*Command, bool) {
	return u.commands.get(name)
}

func (u *Universe) CommandNames() []string { return u.commands.names() }

func (u *Universe) Molecules() []*Molecule { return u.molecules.values() }

func (u *Universe) Regions() []*Region { return u.regions.values() }

func (u *Universe) Variables() []*Variable { return u.variables.values() }

// Var returns the variable declared as id.
func (u *Universe) Var(id string) (*Variable, bool) { return u.variables.get(id) }
