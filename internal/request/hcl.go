package request

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/ctxlog"
	"github.com/vk/neccard/internal/expr"
)

// HCLLoader reads `.hcl` build requests.
type HCLLoader struct{}

// NewHCLLoader creates a new HCL request loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclRoot is the top-level schema of an HCL request.
type hclRoot struct {
	Output      string        `hcl:"output,optional"`
	SigFigs     *int          `hcl:"sig_figs,optional"`
	Verbose     *int          `hcl:"verbose,optional"`
	Columns     []int         `hcl:"columns,optional"`
	Comments    []string      `hcl:"comments,optional"`
	Constants   *hclConstants `hcl:"constants,block"`
	Wires       []*hclWire    `hcl:"wire,block"`
	Frequency   *hclFields    `hcl:"frequency,block"`
	Excitations []*hclFields  `hcl:"excitation,block"`
	Radiation   *hclFields    `hcl:"radiation,block"`
}

type hclConstants struct {
	Remain hcl.Body `hcl:",remain"`
}

type hclWire struct {
	Tag      hcl.Expression `hcl:"tag"`
	Segments hcl.Expression `hcl:"segments"`
	Start    hcl.Expression `hcl:"start"`
	End      hcl.Expression `hcl:"end"`
	Radius   hcl.Expression `hcl:"radius"`
}

type hclFields struct {
	Fields hcl.Expression `hcl:"fields"`
}

// Load parses and decodes one HCL request file.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading HCL request.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	doc := &Document{
		Output:    root.Output,
		SigFigs:   root.SigFigs,
		Verbosity: root.Verbose,
		Comments:  root.Comments,
	}
	if root.Columns != nil {
		doc.Columns = column.Spec(root.Columns)
	}

	d := &hclDecoder{src: src}
	if root.Constants != nil {
		doc.Constants = d.constants(root.Constants)
	}
	for _, w := range root.Wires {
		doc.Wires = append(doc.Wires, d.wire(w))
	}
	if root.Frequency != nil {
		doc.Frequency = d.fields(root.Frequency)
	}
	for _, ex := range root.Excitations {
		doc.Excitations = append(doc.Excitations, d.fields(ex))
	}
	if root.Radiation != nil {
		doc.Radiation = d.fields(root.Radiation)
	}
	if d.diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, d.diags)
	}

	logger.Debug("Loaded HCL request.", "path", path, "wires", len(doc.Wires), "constants", len(doc.Constants))
	return doc, nil
}

// hclDecoder turns expressions back into the source text they were written
// as, accumulating diagnostics along the way.
type hclDecoder struct {
	src   []byte
	diags hcl.Diagnostics
}

func (d *hclDecoder) text(e hcl.Expression) string {
	return string(e.Range().SliceBytes(d.src))
}

func (d *hclDecoder) list(e hcl.Expression, want int, what string) []string {
	items, diags := hcl.ExprList(e)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return nil
	}
	if want > 0 && len(items) != want {
		d.diags = append(d.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Wrong number of elements",
			Detail:   fmt.Sprintf("%s needs exactly %d elements, got %d.", what, want, len(items)),
			Subject:  e.Range().Ptr(),
		})
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = d.text(item)
	}
	return out
}

func (d *hclDecoder) constants(c *hclConstants) map[string]float64 {
	attrs, diags := c.Remain.JustAttributes()
	d.diags = append(d.diags, diags...)

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]float64, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		v, err := expr.Resolve(d.text(attr.Expr), nil)
		if err != nil {
			d.diags = append(d.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid constant",
				Detail:   fmt.Sprintf("Constant %q: %v.", name, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		out[name] = v
	}
	return out
}

func (d *hclDecoder) wire(w *hclWire) card.Row {
	start := d.list(w.Start, 3, "Wire start")
	end := d.list(w.End, 3, "Wire end")
	if start == nil || end == nil {
		return nil
	}
	row := make(card.Row, 0, card.WireFields)
	row = append(row, d.text(w.Tag), d.text(w.Segments))
	row = append(row, start...)
	row = append(row, end...)
	return append(row, d.text(w.Radius))
}

func (d *hclDecoder) fields(f *hclFields) card.Row {
	return card.Row(d.list(f.Fields, 0, "Card fields"))
}
