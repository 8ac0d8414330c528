package request

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/expr"
	"github.com/vk/neccard/internal/serializer"
	"github.com/vk/neccard/internal/testutil"
)

func TestLoad_DipoleFormatsAgree(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"dipole.hcl", "dipole.yaml"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)
			path := filepath.Join("testdata", name)

			// --- Act ---
			doc, err := Load(ctx, path)

			// --- Assert ---
			require.NoError(t, err)
			require.Equal(t, path, doc.Path)
			require.Equal(t, filepath.Join("testdata", "dipole.nec"), doc.Output)
			require.Equal(t, 2, doc.SigFigsOrDefault())
			require.Equal(t, 2, doc.VerbosityOrDefault())
			require.Equal(t, []string{"Dipole made with dipole.py"}, doc.Comments)
			require.Equal(t, testutil.DipoleConstants(), doc.Constants)

			want := &Document{
				Wires:       []card.Row{testutil.DipoleWire()},
				Frequency:   testutil.DipoleFrequency(),
				Excitations: []card.Row{testutil.DipoleExcitation()},
				Radiation:   testutil.DipoleRadiation(),
			}
			got := &Document{
				Wires:       doc.Wires,
				Frequency:   doc.Frequency,
				Excitations: doc.Excitations,
				Radiation:   doc.Radiation,
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocument_RequestRendersCanonicalDipole(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	doc, err := Load(ctx, filepath.Join("testdata", "dipole.hcl"))
	require.NoError(t, err)

	req, err := doc.Request()
	require.NoError(t, err)

	text, err := serializer.Render(ctx, req)
	require.NoError(t, err)
	require.Equal(t, testutil.DipoleDocument, text)
}

func TestDocument_RequestRejectsCollidingConstants(t *testing.T) {
	t.Parallel()

	doc := &Document{Path: "bicone.yaml", Constants: map[string]float64{"offset": 1, "cone_offset": 2}}
	_, err := doc.Request()

	var collision *expr.NameCollisionError
	require.ErrorAs(t, err, &collision)
}

func TestDocument_Defaults(t *testing.T) {
	t.Parallel()

	doc := &Document{}
	require.Equal(t, 2, doc.SigFigsOrDefault())
	require.Equal(t, serializer.SummaryOnly, doc.VerbosityOrDefault())
}

func TestLoad_DefaultsOutputNextToRequest(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"models/loop.yaml": "wires:\n  - [\"1\", \"4\", \"0\", \"0\", \"0\", \"1\", \"0\", \"0\", \"0.001\"]\n",
	})

	doc, err := Load(ctx, filepath.Join(dir, "models", "loop.yaml"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "models", "loop.nec"), doc.Output)
	require.Nil(t, doc.SigFigs)
	require.Nil(t, doc.Frequency)
	require.Nil(t, doc.Columns)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
		errText string
	}{
		{
			name:    "unsupported extension",
			file:    "model.json",
			content: "{}",
			errText: "unsupported request file",
		},
		{
			name:    "invalid HCL",
			file:    "bad.hcl",
			content: "wire {\n  tag = 1\n",
			errText: "failed to parse HCL file",
		},
		{
			name:    "missing wire attribute",
			file:    "short.hcl",
			content: "wire {\n  tag = 1\n  segments = 1\n  start = [0, 0, 0]\n  end = [0, 0, 1]\n}\n",
			errText: "failed to decode HCL file",
		},
		{
			name:    "wire end with two coordinates",
			file:    "coords.hcl",
			content: "wire {\n  tag = 1\n  segments = 1\n  start = [0, 0, 0]\n  end = [0, 1]\n  radius = 0.001\n}\n",
			errText: "Wire end needs exactly 3 elements",
		},
		{
			name:    "constant that is not arithmetic",
			file:    "const.hcl",
			content: "constants {\n  length = \"long\"\n}\n",
			errText: "Invalid constant",
		},
		{
			name:    "unknown YAML key",
			file:    "typo.yaml",
			content: "wire: []\n",
			errText: "failed to decode YAML file",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)
			dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{tc.file: tc.content})

			_, err := Load(ctx, filepath.Join(dir, tc.file))

			require.ErrorContains(t, err, tc.errText)
		})
	}
}

func TestHCLLoader_ConstantExpressions(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"cone.hcl": "constants {\n  theta = 50 * pi / 180\n  init_rad = 0.06\n}\n",
	})

	doc, err := NewHCLLoader().Load(ctx, filepath.Join(dir, "cone.hcl"))
	require.NoError(t, err)
	require.InDelta(t, 0.872664626, doc.Constants["theta"], 1e-9)
	require.Equal(t, 0.06, doc.Constants["init_rad"])
}

func TestLoadAll_Directory(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	wire := "wires:\n  - [\"1\", \"1\", \"0\", \"0\", \"0\", \"0\", \"0\", \"1\", \"0.001\"]\n"
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"a.yaml":         wire,
		"nested/b.yml":   wire,
		"nested/c.hcl":   "wire {\n  tag = 1\n  segments = 1\n  start = [0, 0, 0]\n  end = [0, 0, 1]\n  radius = 0.001\n}\n",
		"nested/out.nec": "EN\n",
	})

	docs, err := LoadAll(ctx, dir)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, filepath.Join(dir, "a.yaml"), docs[0].Path)
	require.Equal(t, filepath.Join(dir, "nested", "c.nec"), docs[2].Output)
}

func TestLoadAll_NothingFound(t *testing.T) {
	t.Parallel()

	_, err := LoadAll(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "no request files found")
}
