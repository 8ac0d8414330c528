// Package column renders values into the fixed-width, right-justified fields
// of NEC2 card lines.
package column

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultSigFigs is the number of digits after the decimal point used for
// scientific-notation fields unless configured otherwise.
const DefaultSigFigs = 2

// MaxSigFigs bounds the configurable digit count.
const MaxSigFigs = 15

// Spec is an ordered list of cumulative character offsets. Field i occupies
// Spec[i+1]-Spec[i] characters.
type Spec []int

// DefaultSpec returns the card-field offsets used when serializing: two
// characters for the card code, narrow integer columns, then ten-character
// numeric columns.
func DefaultSpec() Spec {
	return Spec{2, 5, 10, 20, 30, 40, 50, 60, 70, 80}
}

// Validate checks that the spec has at least one field and strictly
// increasing, non-negative offsets.
func (s Spec) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("column spec needs at least two offsets, got %d", len(s))
	}
	if s[0] < 0 {
		return fmt.Errorf("column spec offset 0 is negative (%d)", s[0])
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return fmt.Errorf("column spec offsets must increase: offset %d (%d) <= offset %d (%d)", i, s[i], i-1, s[i-1])
		}
	}
	return nil
}

// Fields returns the number of fields the spec describes.
func (s Spec) Fields() int {
	if len(s) < 2 {
		return 0
	}
	return len(s) - 1
}

// Width returns the width of field i.
func (s Spec) Width(i int) (int, bool) {
	if i < 0 || i+1 >= len(s) {
		return 0, false
	}
	return s[i+1] - s[i], true
}

// String renders the spec as a comma separated offset list.
func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, off := range s {
		parts[i] = strconv.Itoa(off)
	}
	return strings.Join(parts, ",")
}

// ParseSpec reads a comma separated offset list such as "2,5,10,20".
func ParseSpec(text string) (Spec, error) {
	var s Spec
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid column offset %q: %w", part, err)
		}
		s = append(s, n)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OverflowError reports a row with more fields than the spec has columns.
type OverflowError struct {
	Fields  int
	Columns int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("row has %d fields but the column spec only has %d columns", e.Fields, e.Columns)
}

// Pad right-justifies token in a field of the given width. A token longer
// than width is returned whole.
func Pad(token string, width int) string {
	if len(token) >= width {
		return token
	}
	return strings.Repeat(" ", width-len(token)) + token
}

// Render formats v either as plain base-10 text or in normalized scientific
// notation with sigFigs digits after the decimal point.
func Render(v float64, scientific bool, sigFigs int) string {
	if scientific {
		return strconv.FormatFloat(v, 'e', sigFigs, 64)
	}
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Formatter renders values into the columns of a Spec.
type Formatter struct {
	Spec    Spec
	SigFigs int
}

// New validates spec and sigFigs and returns a Formatter.
func New(spec Spec, sigFigs int) (*Formatter, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if sigFigs < 0 || sigFigs > MaxSigFigs {
		return nil, fmt.Errorf("significant figures must be between 0 and %d, got %d", MaxSigFigs, sigFigs)
	}
	return &Formatter{Spec: spec, SigFigs: sigFigs}, nil
}

// Field renders v as field i. Fields at or after sciStart use scientific
// notation.
func (f *Formatter) Field(v float64, i, sciStart int) (string, error) {
	width, ok := f.Spec.Width(i)
	if !ok {
		return "", &OverflowError{Fields: i + 1, Columns: f.Spec.Fields()}
	}
	return Pad(Render(v, i >= sciStart, f.SigFigs), width), nil
}

// Token right-justifies an already rendered token as field i.
func (f *Formatter) Token(token string, i int) (string, error) {
	width, ok := f.Spec.Width(i)
	if !ok {
		return "", &OverflowError{Fields: i + 1, Columns: f.Spec.Fields()}
	}
	return Pad(token, width), nil
}

// Line renders code followed by every value in its column. It fails with
// *OverflowError when values has more entries than the spec has columns.
func (f *Formatter) Line(code string, values []float64, sciStart int) (string, error) {
	if len(values) > f.Spec.Fields() {
		return "", &OverflowError{Fields: len(values), Columns: f.Spec.Fields()}
	}
	var b strings.Builder
	b.WriteString(code)
	for i, v := range values {
		field, err := f.Field(v, i, sciStart)
		if err != nil {
			return "", err
		}
		b.WriteString(field)
	}
	return b.String(), nil
}
