package reformat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a=1", " b=max(1, 2)", " c=3"}, splitTopLevel("a=1, b=max(1, 2), c=3", ','))
	require.Equal(t, []string{"x = 1"}, splitTopLevel("x = 1", ','))
	require.Equal(t, []string{""}, splitTopLevel("", ','))
}

func TestVariables_Define(t *testing.T) {
	t.Parallel()

	vars := Variables{}
	names, err := vars.define(1, "SY len=2, area = len*len\n")
	require.NoError(t, err)
	require.Equal(t, []string{"len", "area"}, names)

	v, ok := vars.Lookup("area")
	require.True(t, ok)
	require.Equal(t, 4.0, v)

	// Redefinition overwrites the earlier value.
	_, err = vars.define(2, "SY len = 3")
	require.NoError(t, err)
	require.Equal(t, 3.0, vars["len"])
	require.Equal(t, 4.0, vars["area"])
}
