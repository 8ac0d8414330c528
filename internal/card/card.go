// Package card describes the NEC2 card types this tool reads and writes and
// the per-card parameters used to lay their fields out in columns.
package card

import "fmt"

// Code is a two-letter NEC2 card mnemonic.
type Code string

const (
	Comment     Code = "CM"
	CommentEnd  Code = "CE"
	Wire        Code = "GW"
	GeometryEnd Code = "GE"
	Frequency   Code = "FR"
	Excitation  Code = "EX"
	Radiation   Code = "RP"
	End         Code = "EN"
	Symbol      Code = "SY"
)

// WireFields is the arity of a GW row: tag, segment count, x1, y1, z1, x2,
// y2, z2 and radius.
const WireFields = 9

// Card holds the formatting parameters of one card type.
type Card struct {
	Code Code
	// SciStart is the first row index rendered in scientific notation.
	// Earlier fields are integers such as tags, counts and flags.
	SciStart int
}

var formatted = map[Code]Card{
	Wire:        {Code: Wire, SciStart: 2},
	GeometryEnd: {Code: GeometryEnd, SciStart: 1},
	Frequency:   {Code: Frequency, SciStart: 4},
	Excitation:  {Code: Excitation, SciStart: 4},
	Radiation:   {Code: Radiation, SciStart: 8},
}

// Lookup returns the formatting parameters of a card whose fields are laid
// out in columns.
func Lookup(code Code) (Card, bool) {
	c, ok := formatted[code]
	return c, ok
}

// MustLookup is Lookup for codes known at compile time.
func MustLookup(code Code) Card {
	c, ok := formatted[code]
	if !ok {
		panic(fmt.Sprintf("card: %s has no column layout", code))
	}
	return c
}

// Row is the ordered list of field expressions of one card instance. Field
// order maps directly to column position.
type Row []string

// Clone returns a copy of the row that shares no storage with r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return append(Row(nil), r...)
}

// Block is a run of rows sharing one card type.
type Block struct {
	Card Card
	Rows []Row
}

// ArityError reports a row with the wrong number of fields.
type ArityError struct {
	Code Code
	Row  int
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s row %d has %d fields, want %d", e.Code, e.Row, e.Got, e.Want)
}

// CheckWires verifies every wire row has exactly WireFields fields.
func CheckWires(rows []Row) error {
	for i, r := range rows {
		if len(r) != WireFields {
			return &ArityError{Code: Wire, Row: i, Got: len(r), Want: WireFields}
		}
	}
	return nil
}
