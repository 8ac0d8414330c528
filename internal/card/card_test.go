package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		code     Code
		ok       bool
		sciStart int
	}{
		{code: Wire, ok: true, sciStart: 2},
		{code: GeometryEnd, ok: true, sciStart: 1},
		{code: Frequency, ok: true, sciStart: 4},
		{code: Excitation, ok: true, sciStart: 4},
		{code: Radiation, ok: true, sciStart: 8},
		{code: Comment},
		{code: Symbol},
		{code: "ZZ"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			c, ok := Lookup(tc.code)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.code, c.Code)
				require.Equal(t, tc.sciStart, c.SciStart)
			}
		})
	}
}

func TestMustLookup_PanicsOnTextCards(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { MustLookup(End) })
	require.NotPanics(t, func() { MustLookup(Wire) })
}

func TestCheckWires(t *testing.T) {
	t.Parallel()

	good := Row{"1", "1", "0", "0", "0", "0", "0", "1", "0.001"}
	require.NoError(t, CheckWires([]Row{good, good}))

	err := CheckWires([]Row{good, good[:8]})
	var arity *ArityError
	require.ErrorAs(t, err, &arity)
	require.Equal(t, 1, arity.Row)
	require.Equal(t, 8, arity.Got)
}

func TestRow_Clone(t *testing.T) {
	t.Parallel()

	r := Row{"a", "b"}
	c := r.Clone()
	c[0] = "z"
	require.Equal(t, "a", r[0])
	require.Nil(t, Row(nil).Clone())
}
