package serializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/ctxlog"
	"github.com/vk/neccard/internal/expr"
)

// Extension is appended to output paths that have none.
const Extension = ".nec"

// Request is everything needed to build one document. Rows are copied on
// use; the serializer never retains or mutates caller slices.
type Request struct {
	Comments    []string
	Wires       []card.Row
	Constants   *expr.ConstantTable
	Frequency   card.Row
	Excitations []card.Row
	Radiation   card.Row
	Output      string
	// Columns defaults to column.DefaultSpec when nil.
	Columns column.Spec
	SigFigs int
}

// FieldError locates a field that could not be resolved.
type FieldError struct {
	Code  card.Code
	Row   int
	Field int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s row %d field %d: %v", e.Code, e.Row, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// OutputPath returns the destination for output, adding Extension when the
// name has no extension of its own.
func OutputPath(output string) string {
	if filepath.Ext(output) == "" {
		return output + Extension
	}
	return output
}

// Build renders the document and writes it to the request's output path in a
// single write. Nothing is written if any field fails to resolve.
func Build(ctx context.Context, req *Request) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	if req.Output == "" {
		return nil, errors.New("output path is required")
	}
	dest := OutputPath(req.Output)

	text, err := Render(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	summary := &Summary{
		Wires:       len(req.Wires),
		Destination: dest,
		Elapsed:     time.Since(start),
		Comments:    append([]string(nil), req.Comments...),
	}
	logger.Info("Wrote NEC file.", "path", dest, "wires", summary.Wires, "elapsed", summary.Elapsed)
	return summary, nil
}

// Render returns the newline-terminated document text for req.
func Render(ctx context.Context, req *Request) (string, error) {
	logger := ctxlog.FromContext(ctx)

	columns := req.Columns
	if columns == nil {
		columns = column.DefaultSpec()
	}
	formatter, err := column.New(columns, req.SigFigs)
	if err != nil {
		return "", err
	}
	if err := card.CheckWires(req.Wires); err != nil {
		return "", err
	}
	for i, c := range req.Comments {
		if strings.ContainsAny(c, "\r\n") {
			return "", fmt.Errorf("comment %d contains a line break", i)
		}
	}

	blocks := cardBlocks(req)

	parsed, err := parseBlocks(blocks)
	if err != nil {
		return "", err
	}
	logger.Debug("Parsed card expressions.", "expressions", parsed.batch.Len(), "names", parsed.batch.Names())

	if err := parsed.batch.Check(req.Constants); err != nil {
		return "", err
	}

	lines := make([]string, 0, len(req.Comments)+len(req.Wires)+len(req.Excitations)+6)
	for _, c := range req.Comments {
		lines = append(lines, string(card.Comment)+" "+c)
	}
	lines = append(lines, string(card.CommentEnd))

	for bi, block := range blocks {
		for ri, row := range parsed.rows[bi] {
			values := make([]float64, len(row))
			for fi, e := range row {
				v, err := e.Eval(req.Constants)
				if err != nil {
					return "", &FieldError{Code: block.Card.Code, Row: ri, Field: fi, Err: err}
				}
				values[fi] = v
			}
			line, err := formatter.Line(string(block.Card.Code), values, block.Card.SciStart)
			if err != nil {
				return "", fmt.Errorf("%s row %d: %w", block.Card.Code, ri, err)
			}
			lines = append(lines, line)
		}

		// Geometry ends right after the wires, before any program cards.
		if block.Card.Code == card.Wire {
			ge := card.MustLookup(card.GeometryEnd)
			line, err := formatter.Line(string(ge.Code), []float64{0}, ge.SciStart)
			if err != nil {
				return "", err
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, string(card.End))

	logger.Debug("Rendered NEC document.", "lines", len(lines))
	return strings.Join(lines, "\n") + "\n", nil
}

// cardBlocks returns the row blocks in document order. The wire block is
// always present; the others only when the request carries rows for them.
func cardBlocks(req *Request) []card.Block {
	clone := func(rows []card.Row) []card.Row {
		out := make([]card.Row, len(rows))
		for i, r := range rows {
			out[i] = r.Clone()
		}
		return out
	}

	blocks := []card.Block{{Card: card.MustLookup(card.Wire), Rows: clone(req.Wires)}}
	if req.Frequency != nil {
		blocks = append(blocks, card.Block{Card: card.MustLookup(card.Frequency), Rows: clone([]card.Row{req.Frequency})})
	}
	if len(req.Excitations) > 0 {
		blocks = append(blocks, card.Block{Card: card.MustLookup(card.Excitation), Rows: clone(req.Excitations)})
	}
	if req.Radiation != nil {
		blocks = append(blocks, card.Block{Card: card.MustLookup(card.Radiation), Rows: clone([]card.Row{req.Radiation})})
	}
	return blocks
}

type parsedBlocks struct {
	batch *expr.Batch
	rows  [][][]*expr.Expression
}

func parseBlocks(blocks []card.Block) (*parsedBlocks, error) {
	p := &parsedBlocks{batch: expr.NewBatch(), rows: make([][][]*expr.Expression, len(blocks))}
	for bi, block := range blocks {
		p.rows[bi] = make([][]*expr.Expression, len(block.Rows))
		for ri, row := range block.Rows {
			parsedRow := make([]*expr.Expression, len(row))
			for fi, field := range row {
				e, err := expr.Parse(field)
				if err != nil {
					return nil, &FieldError{Code: block.Card.Code, Row: ri, Field: fi, Err: err}
				}
				parsedRow[fi] = e
			}
			p.batch.Add(parsedRow...)
			p.rows[bi][ri] = parsedRow
		}
	}
	return p, nil
}
