package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Expression {
	t.Helper()
	e, err := Parse(src)
	require.NoError(t, err, "parsing %q", src)
	return e
}

func TestBatch_CollectsNamesAndFunctions(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	b.Add(
		parse(t, "originx + length"),
		nil,
		parse(t, "sin(theta)*length"),
		parse(t, "1"),
	)

	require.Equal(t, 3, b.Len())
	require.Equal(t, []string{"length", "originx", "theta"}, b.Names())
	require.Equal(t, []string{"sin"}, b.Functions())
}

func TestBatch_CheckReportsEveryMissingName(t *testing.T) {
	t.Parallel()

	table, err := NewConstantTable(map[string]float64{"length": 1})
	require.NoError(t, err)

	b := NewBatch()
	b.Add(parse(t, "length + zeta"), parse(t, "alpha*pi"), parse(t, "zeta"))

	err = b.Check(table)
	var undefined *UndefinedSymbolError
	require.ErrorAs(t, err, &undefined)
	require.Equal(t, []string{"alpha", "zeta"}, undefined.Names)
	require.Contains(t, err.Error(), "alpha, zeta")
}

func TestBatch_CheckPassesWhenResolved(t *testing.T) {
	t.Parallel()

	b := NewBatch()
	require.NoError(t, b.Check(nil))

	b.Add(parse(t, "2*pi"))
	require.NoError(t, b.Check(nil))
}
