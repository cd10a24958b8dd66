package lmp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(s Statement) string {
	return strings.Join(strings.Fields(s.Cmd().String()), " ")
}

func TestGroupDefinition(t *testing.T) {
	u := NewUniverse(NewRegistry())

	tests := []struct {
		name    string
		id      string
		method  string
		members []any
		want    string
	}{
		{"members", "g1", "type", []any{[]int{1, 2, 3}}, "group g1 type 1 2 3"},
		{"single member", "lBase", "type", []any{4}, "group lBase type 4"},
		{"names", "lSolid", "union", []any{[]string{"lBase", "lBath"}}, "group lSolid union lBase lBath"},
		{"empty", "g2", "type", nil, "group g2 type 0"},
		{"empty slice", "g4", "molecule", []any{[]any{}}, "group g4 type 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGroup(u, tt.id, tt.method, tt.members...)
			require.NotNil(t, g.Definition())
			assert.Equal(t, tt.want, fields(g.Definition()))
		})
	}

	g3 := NewGroup(u, "g3", "")
	assert.Nil(t, g3.Definition())
}

func TestGroupFixUnfix(t *testing.T) {
	u := NewUniverse(NewRegistry())
	g := NewGroup(u, "lBath", "type", 6)

	fix, err := g.Fix("heat", "langevin 300 300 100 2017")
	require.NoError(t, err)

	assert.Equal(t, "heat_lBath", fix.ID())
	assert.Equal(t, "fix heat_lBath lBath langevin 300 300 100 2017", fields(fix))
	require.NotNil(t, fix.Unfix())
	assert.Equal(t, "unfix heat_lBath", fields(fix.Unfix()))
	assert.False(t, fix.Unfix().Frozen())

	cancel, ok := u.Lookup(CancelPrefix + "heat_lBath")
	require.True(t, ok)
	assert.Same(t, fix.Unfix(), cancel)

	_, err = g.Fix("heat", "nve")
	assert.ErrorIs(t, err, ErrDuplicateName)

	other := NewGroup(u, "uBath", "type", 7)
	_, err = other.Fix("heat", "nve")
	assert.NoError(t, err)
}

func TestGroupModify(t *testing.T) {
	u := NewUniverse(NewRegistry())
	g := NewGroup(u, "lBath", "type", 6)

	c, err := g.Compute("noBiasTemp", "temp/com")
	require.NoError(t, err)
	f, err := g.Fix("thermostat", "langevin", 300, 300, 100, 2017)
	require.NoError(t, err)
	d, err := g.Dump("traj", "custom", 1000, "atom.*.dump", "id type x y z")
	require.NoError(t, err)

	assert.Equal(t, "fix_modify thermostat_lBath temp noBiasTemp_lBath", fields(f.Modify("temp", c)))
	assert.Equal(t, "compute_modify noBiasTemp_lBath dynamic/dof yes", fields(c.Modify("dynamic/dof", "yes")))
	assert.Equal(t, "dump_modify traj_lBath sort id", fields(d.Modify("sort", "id")))
	assert.Equal(t, "dump traj_lBath lBath custom 1000 atom.*.dump id type x y z", fields(d))
}

func TestGroupComputeRegisters(t *testing.T) {
	reg := NewRegistry()
	u := NewUniverse(reg)
	liq := NewGroup(u, "liq", "molecule", []int{1, 2})

	temp, err := liq.Compute("temp", "temp")
	require.NoError(t, err)
	assert.Equal(t, "c_temp_liq", temp.Ref())

	ref, err := reg.Resolve(temp)
	require.NoError(t, err)
	assert.Equal(t, temp.Ref(), ref)

	_, err = liq.Compute("temp", "temp")
	assert.ErrorIs(t, err, ErrDuplicateName)

	got, ok := liq.LookupCompute("temp")
	require.True(t, ok)
	assert.Same(t, temp, got)
}

func TestGroupScopedCommand(t *testing.T) {
	u := NewUniverse(NewRegistry())
	all := NewGroup(u, "all", "")

	v := all.Command("velocity", "create", 1.44, 87287, "loop", "geom")
	assert.Equal(t, "velocity all create 1.44 87287 loop geom", fields(v))

	_, err := all.CommandAs("velocity1", "velocity", "set", 0)
	assert.ErrorIs(t, err, ErrDuplicateName)

	c, err := all.Compute("", "ke/atom")
	require.NoError(t, err)
	assert.Equal(t, "compute1_all", c.ID())
}

func TestUniverseFactories(t *testing.T) {
	reg := NewRegistry()
	u := NewUniverse(reg)

	box, err := u.Region("box", "block", "0 20 0 20 0 20")
	require.NoError(t, err)
	assert.Equal(t, "region box block 0 20 0 20 0 20", fields(box))

	create := u.Command("create_box", 1, box)
	assert.Equal(t, "create_box 1 box", fields(create))

	mol, err := u.Molecule("", "water.mol")
	require.NoError(t, err)
	assert.Equal(t, "molecule1", mol.ID())

	v, err := u.Variable("gap", "equal", "v_a-v_b")
	require.NoError(t, err)
	assert.Equal(t, "v_gap", v.Ref())
	assert.Equal(t, "variable gap equal v_a-v_b", fields(v))

	_, err = u.Variable("gap", "equal", 0)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = u.CommandAs("units1", "units", "lj")
	require.NoError(t, err)
	auto := u.Command("units", "real")
	assert.NotNil(t, auto)
	assert.Equal(t, []string{"create_box1", "units1", "units2"}, u.CommandNames())
}
