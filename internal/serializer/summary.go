package serializer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Verbosity levels for Summary.Report.
const (
	Silent = iota
	SummaryOnly
	SummaryWithComments
)

// Summary describes a completed build.
type Summary struct {
	Wires       int
	Destination string
	Elapsed     time.Duration
	Comments    []string
}

// Report writes a human-readable account of the build to w.
func (s *Summary) Report(w io.Writer, verbosity int) error {
	if verbosity <= Silent {
		return nil
	}

	var b strings.Builder
	if verbosity >= SummaryWithComments {
		b.WriteString("Comments:\n")
		for _, c := range s.Comments {
			b.WriteString(strings.Repeat(" ", 8) + c + "\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Wrote %d wires to %s in %.3fms.\n",
		s.Wires, filepath.Base(s.Destination), float64(s.Elapsed)/float64(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}
