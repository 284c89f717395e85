package dataio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Basic(t *testing.T) {
	in := `# comment
1.0,2.0,3.0
4;5;6

% another comment
7 8	9
`
	table, err := Read(strings.NewReader(in), ReadOptions{LabelColumn: -1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, table.Points)
	assert.Nil(t, table.Labels)
	assert.Nil(t, table.LabelNames)
}

func TestRead_LabelColumn(t *testing.T) {
	in := "0.5,1.5,a\n2.5,3.5,b\n4.5,5.5,a\n"

	t.Run("explicit", func(t *testing.T) {
		table, err := Read(strings.NewReader(in), ReadOptions{LabelColumn: 2})
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{0.5, 1.5}, {2.5, 3.5}, {4.5, 5.5}}, table.Points)
		assert.Equal(t, []int{0, 1, 0}, table.Labels)
		assert.Equal(t, []string{"a", "b"}, table.LabelNames)
	})

	t.Run("from end", func(t *testing.T) {
		table, err := Read(strings.NewReader(in), ReadOptions{LabelColumn: -2})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 0}, table.Labels)
		assert.Len(t, table.Points[0], 2)
	})

	t.Run("first column", func(t *testing.T) {
		table, err := Read(strings.NewReader("x 1 2\ny 3 4\n"), ReadOptions{LabelColumn: 0})
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, table.Points)
		assert.Equal(t, []string{"x", "y"}, table.LabelNames)
	})
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts ReadOptions
		want string
	}{
		{"ragged", "1,2,3\n4,5\n", ReadOptions{LabelColumn: -1}, "line 2"},
		{"not a number", "1,2\n3,x\n", ReadOptions{LabelColumn: -1}, "line 2 column 1"},
		{"missing label", "1,2\n", ReadOptions{LabelColumn: 5}, "no label column"},
		{"label before first column", "1,2\n", ReadOptions{LabelColumn: -5}, "no label column -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRead_Empty(t *testing.T) {
	table, err := Read(strings.NewReader("# nothing here\n\n"), ReadOptions{LabelColumn: -1})
	require.NoError(t, err)
	assert.Empty(t, table.Points)
}
