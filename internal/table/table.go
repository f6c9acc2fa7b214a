// Package table renders a finite list of sequence terms as a two-column
// markdown table.
//
// The layout is fixed:
//
//	# <title>
//	| n | <value header> |
//	|---|--:|
//	| 1 | <term 1> |
//	...
//
// Positions are 1-based and values are written as their exact decimal digits,
// whatever their magnitude.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// AlignmentRow is the separator line emitted after the header. The value
// column is always right-aligned.
const AlignmentRow = "|---|--:|"

// ErrNilTerm is returned when a table contains a nil term. Nothing is written
// in that case.
var ErrNilTerm = errors.New("table: nil term")

// Table is the input of the renderer.
type Table struct {
	// Title is placed verbatim after "# " on the first line.
	Title string
	// ValueHeader heads the second column (e.g. "fib(n)").
	ValueHeader string
	// Terms are the values, in display order.
	Terms []*big.Int
}

// HeaderRow returns the column header line of t, without newline.
func (t Table) HeaderRow() string {
	return "| n | " + t.ValueHeader + " |"
}

// Render writes t to w, one newline-terminated line per row.
func Render(w io.Writer, t Table) error {
	for i, v := range t.Terms {
		if v == nil {
			return fmt.Errorf("%w at position %d", ErrNilTerm, i+1)
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("# ")
	bw.WriteString(t.Title)
	bw.WriteByte('\n')
	bw.WriteString(t.HeaderRow())
	bw.WriteByte('\n')
	bw.WriteString(AlignmentRow)
	bw.WriteByte('\n')

	// Row buffer reused across terms; it grows to fit the widest value.
	var line []byte
	for i, v := range t.Terms {
		line = append(line[:0], "| "...)
		line = strconv.AppendInt(line, int64(i+1), 10)
		line = append(line, " | "...)
		line = v.Append(line, 10)
		line = append(line, " |\n"...)
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("table: write row %d: %w", i+1, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("table: flush: %w", err)
	}
	return nil
}

// String renders t into a string. A table holding a nil term renders as
// an empty string.
func (t Table) String() string {
	var sb strings.Builder
	if err := Render(&sb, t); err != nil {
		return ""
	}
	return sb.String()
}
