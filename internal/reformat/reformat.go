package reformat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/vk/neccard/internal/card"
	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/ctxlog"
	"github.com/vk/neccard/internal/expr"
	"github.com/vk/neccard/internal/fsutil"
)

// Cards are the card codes whose lines are re-rendered.
var Cards = []card.Code{card.Wire, card.GeometryEnd, card.Radiation, card.Excitation}

// DefaultSpec returns the reformat column offsets. Unlike the serializer's
// offsets they start at zero: the card code is field 0.
func DefaultSpec() column.Spec {
	return column.Spec{0, 2, 5, 10, 20, 30, 40, 50, 60, 70, 80}
}

// Options configures a reformat pass.
type Options struct {
	Columns column.Spec
	SigFigs int
}

// DefaultOptions returns the reformat defaults.
func DefaultOptions() Options {
	return Options{Columns: DefaultSpec(), SigFigs: column.DefaultSigFigs}
}

// Stats counts what a pass did.
type Stats struct {
	Lines       int
	Reformatted int
	Variables   int
	Dropped     int
}

// Reformat rewrites src into dst. dst is created exclusively; if it already
// exists the call fails with *AlreadyExistsError before src is opened.
func Reformat(ctx context.Context, src, dst string, opts Options) (*Stats, error) {
	ctx = ctxlog.With(ctx, "source", src, "destination", dst)
	logger := ctxlog.FromContext(ctx)

	out, err := fsutil.CreateExclusive(dst)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &AlreadyExistsError{Path: dst, Err: err}
		}
		return nil, err
	}

	in, err := os.Open(src)
	if err != nil {
		out.Close()
		if rmErr := os.Remove(dst); rmErr != nil {
			logger.Warn("Could not remove empty destination.", "error", rmErr)
		}
		return nil, err
	}
	defer in.Close()

	stats, err := Stream(ctx, in, out, opts)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", dst, closeErr)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Reformatted NEC file.", "lines", stats.Lines, "reformatted", stats.Reformatted, "variables", stats.Variables)
	return stats, nil
}

// Stream reformats r into w. Whatever was emitted before an error is flushed
// to w before Stream returns.
func Stream(ctx context.Context, r io.Reader, w io.Writer, opts Options) (stats *Stats, err error) {
	p, err := newProcessor(ctx, opts)
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriter(w)
	defer func() {
		if flushErr := bw.Flush(); err == nil && flushErr != nil {
			err = flushErr
		}
	}()

	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			out, procErr := p.process(line)
			if procErr != nil {
				return nil, procErr
			}
			if _, werr := bw.WriteString(out); werr != nil {
				return nil, werr
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}
	return &p.stats, nil
}

type processor struct {
	ctx       context.Context
	formatter *column.Formatter
	vars      Variables
	cards     map[card.Code]card.Card
	stats     Stats
}

func newProcessor(ctx context.Context, opts Options) (*processor, error) {
	columns := opts.Columns
	if columns == nil {
		columns = DefaultSpec()
	}
	formatter, err := column.New(columns, opts.SigFigs)
	if err != nil {
		return nil, err
	}
	cards := make(map[card.Code]card.Card, len(Cards))
	for _, code := range Cards {
		cards[code] = card.MustLookup(code)
	}
	return &processor{ctx: ctx, formatter: formatter, vars: Variables{}, cards: cards}, nil
}

// process returns the text to emit for one input line, terminator included.
func (p *processor) process(line string) (string, error) {
	p.stats.Lines++
	lineNo := p.stats.Lines
	logger := ctxlog.FromContext(p.ctx)

	if strings.HasPrefix(line, string(card.Symbol)) {
		names, err := p.vars.define(lineNo, line)
		if err != nil {
			return "", err
		}
		p.stats.Variables += len(names)
		logger.Debug("Defined variables.", "line", lineNo, "names", names)
		return "", nil
	}

	if len(line) >= 2 {
		if c, ok := p.cards[card.Code(line[:2])]; ok {
			out, err := p.render(lineNo, c, line)
			if err != nil {
				return "", err
			}
			p.stats.Reformatted++
			return out + "\n", nil
		}
	}
	return line, nil
}

func (p *processor) render(lineNo int, c card.Card, line string) (string, error) {
	logger := ctxlog.FromContext(p.ctx)

	tokens := splitFields(line)
	fields := tokens[1:]
	// A wide first field can run into the code, as in "GW999".
	if rest := strings.TrimPrefix(tokens[0], string(c.Code)); rest != "" {
		fields = append([]string{rest}, fields...)
	}

	var b strings.Builder
	code, err := p.formatter.Token(string(c.Code), 0)
	if err != nil {
		return "", err
	}
	b.WriteString(code)

	for i, text := range fields {
		col := i + 1
		if col >= p.formatter.Spec.Fields() {
			dropped := len(fields) - i
			p.stats.Dropped += dropped
			logger.Warn("Dropped fields beyond the last column.", "line", lineNo, "card", c.Code, "dropped", fields[i:])
			break
		}
		v, err := expr.Resolve(text, p.vars)
		if err != nil {
			return "", &ExpressionError{Line: lineNo, Card: c.Code, Field: col, Text: text, Err: err}
		}
		field, err := p.formatter.Field(v, col, c.SciStart+1)
		if err != nil {
			return "", err
		}
		b.WriteString(field)
	}

	logger.Debug("Reformatted card.", "line", lineNo, "card", c.Code)
	return b.String(), nil
}

// splitFields splits a card line on whitespace and commas that are not
// inside parentheses, so "max(a, 1)" stays one field.
func splitFields(line string) []string {
	var fields []string
	depth, start := 0, -1
	for i, r := range line {
		sep := depth == 0 && (unicode.IsSpace(r) || r == ',')
		switch {
		case sep:
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
			continue
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, line[start:])
	}
	return fields
}
