package recipes

import (
	"strings"
	"testing"

	"github.com/san-kum/lmpkit/internal/lmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(stmts []lmp.Statement) []string {
	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = strings.Join(strings.Fields(st.Cmd().String()), " ")
	}
	return out
}

func TestKineticVarianceRatioAtomsOnly(t *testing.T) {
	u := lmp.NewUniverse(lmp.NewRegistry())
	all := lmp.NewGroup(u, "all", "")

	k, err := KineticVarianceRatio(all, KineticRatioOptions{})
	require.NoError(t, err)

	assert.Equal(t, "v_ratio_atom_all", k.Atom)
	assert.Empty(t, k.Molecule)
	assert.Equal(t, []string{"v_ratio_atom_all"}, k.Refs())
	assert.Equal(t, []string{
		"compute K_atom_all all ke/atom",
		"compute K2ave_atom_all all reduce avesq c_K_atom_all",
		"compute Kave_atom_all all reduce ave c_K_atom_all",
		"variable Kave2_atom_all equal c_Kave_atom_all*c_Kave_atom_all",
		"variable ratio_atom_all equal c_K2ave_atom_all/v_Kave2_atom_all",
	}, render(k.Commands))
}

func TestKineticVarianceRatioMolecules(t *testing.T) {
	u := lmp.NewUniverse(lmp.NewRegistry())
	liq := lmp.NewGroup(u, "liq", "molecule", []int{1, 2})

	k, err := KineticVarianceRatio(liq, KineticRatioOptions{Molecules: 2, AtomName: "ra", MoleculeName: "rm"})
	require.NoError(t, err)

	assert.Equal(t, []string{"v_ra", "v_rm"}, k.Refs())

	lines := render(k.Commands)
	assert.Contains(t, lines, "compute molchunk_liq liq chunk/atom molecule")
	assert.Contains(t, lines, "compute K_mol_liq liq temp/chunk molchunk_liq kecom")
	assert.Contains(t, lines, "variable K_2_mol_liq equal v_K_1_mol_liq+c_K_mol_liq[2][1]")
	assert.Contains(t, lines, "variable K2_1_mol_liq equal v_K2_0_mol_liq+c_K_mol_liq[1][1]*c_K_mol_liq[1][1]")
	assert.Contains(t, lines, "variable Kave_mol_liq equal v_K_2_mol_liq*0.5")
	assert.Equal(t, "variable rm equal v_K2ave_mol_liq/v_Kave2_mol_liq", lines[len(lines)-1])
}

func TestKineticVarianceRatioTwiceCollides(t *testing.T) {
	u := lmp.NewUniverse(lmp.NewRegistry())
	all := lmp.NewGroup(u, "all", "")

	_, err := KineticVarianceRatio(all, KineticRatioOptions{})
	require.NoError(t, err)
	_, err = KineticVarianceRatio(all, KineticRatioOptions{})
	assert.ErrorIs(t, err, lmp.ErrDuplicateName)

	_, err = KineticVarianceRatio(lmp.NewGroup(u, "x", ""), KineticRatioOptions{Molecules: -1})
	assert.Error(t, err)
}
