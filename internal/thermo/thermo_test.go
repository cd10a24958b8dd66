package thermo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tab, err := Load("testdata/profile.monitor")
	require.NoError(t, err)

	assert.Equal(t, []string{"TimeStep", "c_thermo_temp", "c_thermo_pe", "v_ratio_atom_all"}, tab.Columns)
	require.Len(t, tab.Rows, 3)

	i, err := tab.Index("c_thermo_temp")
	require.NoError(t, err)
	assert.Equal(t, []float64{298.5, 301.2, 299.9}, tab.Column(i))

	_, err = tab.Index("missing")
	assert.Error(t, err)

	assert.False(t, tab.Vector)
	assert.Equal(t, 3, tab.Length())
	assert.Zero(t, tab.Blocks())
}

func TestLoadVector(t *testing.T) {
	tab, err := Load("testdata/profile.vector")
	require.NoError(t, err)

	assert.True(t, tab.Vector)
	assert.Equal(t, []string{"Row", "c_chunk_vx", "c_chunk_density"}, tab.Columns)
	assert.Equal(t, []float64{1000, 2000}, tab.Steps)
	assert.Equal(t, 3, tab.Length())
	assert.Equal(t, 2, tab.Blocks())
	require.Len(t, tab.Rows, 6)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, tab.Column(0))

	second, err := tab.Block(1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0.55, 0.71}, {2, 0.65, 0.79}, {3, 0.45, 0.88}}, second)

	_, err = tab.Block(2)
	assert.Error(t, err)
}

func TestReadVectorErrors(t *testing.T) {
	header := "# fix\n# TimeStep Number-of-rows\n# Row c_x\n"
	tests := []struct {
		name string
		body string
	}{
		{"short block", "100 2\n1 0.5\n"},
		{"fractional count", "100 1.5\n1 0.5\n"},
		{"missing count", "100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(header + tt.body))
			assert.Error(t, err)
		})
	}
}

func TestReadTwoCommentLinesIsScalar(t *testing.T) {
	tab, err := Read(strings.NewReader("# fix\n# TimeStep v_a\n100 1\n200 2\n"))
	require.NoError(t, err)
	assert.False(t, tab.Vector)
	assert.Equal(t, [][]float64{{100, 1}, {200, 2}}, tab.Rows)
}

func TestReadBadRow(t *testing.T) {
	_, err := Read(strings.NewReader("# Step v\n10 abc\n"))
	assert.Error(t, err)
}

func TestColumnSkipsShortRows(t *testing.T) {
	tab, err := Read(strings.NewReader("1 2\n3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, tab.Column(1))
}
