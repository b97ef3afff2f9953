package standings

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes one line per row: position, name, nickname, total and
// one column per session. Discarded cells are wrapped in parentheses and
// penalised ones get a trailing "P".
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	header := []string{"position", "name", "nickname", "total"}
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range t.Rows {
		line := []string{strconv.Itoa(r.Position), r.Name, r.Nickname, formatPoints(r.Total)}
		for _, c := range r.Cells {
			line = append(line, csvCell(c))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(c Cell) string {
	if !c.Present {
		return ""
	}
	s := formatPoints(c.Points)
	if c.Struck {
		s = "(" + s + ")"
	}
	if c.Tone == TonePenalty {
		s += "P"
	}
	return s
}

func formatPoints(p float64) string {
	s := strconv.FormatFloat(p, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
