package wire

import (
	"strings"

	"vegafusion-go/internal/value"
)

// Row/field separators chosen from the ASCII control range so they
// never collide with a rendered scalar's text, unlike comma/newline.
const (
	fieldSep = '\x1f'
	rowSep   = '\x1e'
)

func encodeRows(t *value.Table) []byte {
	var b strings.Builder
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(fieldSep)
			}
			b.WriteString(cell.ToStringValue())
		}
		b.WriteByte(rowSep)
	}
	return []byte(b.String())
}

func decodeRows(raw []byte, numCols int) []value.Row {
	if len(raw) == 0 {
		return nil
	}
	rowStrs := strings.Split(string(raw), string(rune(rowSep)))
	rows := make([]value.Row, 0, len(rowStrs))
	for _, rs := range rowStrs {
		if rs == "" {
			continue
		}
		cells := strings.Split(rs, string(rune(fieldSep)))
		row := make(value.Row, numCols)
		for i := 0; i < numCols; i++ {
			if i < len(cells) {
				row[i] = value.String(cells[i])
			} else {
				row[i] = value.Null()
			}
		}
		rows = append(rows, row)
	}
	return rows
}
