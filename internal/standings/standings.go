package standings

import (
	"sort"

	"brk-portal/internal/models"
)

const (
	BadgeDiscard = "Desc."
	BadgePenalty = "Pen."
	TonePenalty  = "penalty"
)

// Cell is one decorated grid cell, ready to render.
type Cell struct {
	ColumnID string   `json:"columnId"`
	Present  bool     `json:"present"`
	Token    string   `json:"token,omitempty"`
	Points   float64  `json:"points"`
	Struck   bool     `json:"struck,omitempty"`
	Tone     string   `json:"tone,omitempty"`
	Badges   []string `json:"badges,omitempty"`
}

type Row struct {
	Position int     `json:"position"`
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Nickname string  `json:"nickname,omitempty"`
	Total    float64 `json:"total"`
	Cells    []Cell  `json:"cells"`
}

type Table struct {
	Columns []models.ClassificationColumn `json:"columns"`
	Rows    []Row                         `json:"rows"`
	Podium  []Row                         `json:"podium"`
}

// Decorate applies the discard and penalty display rules to a raw cell.
func Decorate(columnID string, c models.ClassificationCell) Cell {
	out := Cell{
		ColumnID: columnID,
		Present:  true,
		Token:    c.Token,
		Points:   c.Points,
	}
	if c.DiscardStage || c.DiscardBattery {
		out.Struck = true
		out.Badges = append(out.Badges, BadgeDiscard)
	}
	if c.HadPenalty {
		out.Tone = TonePenalty
		out.Badges = append(out.Badges, BadgePenalty)
	}
	return out
}

// SortTotals orders by total descending. Ties keep the order the API sent.
func SortTotals(totals []models.ClassificationTotal) []models.ClassificationTotal {
	out := make([]models.ClassificationTotal, len(totals))
	copy(out, totals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// IndexGrid maps user id to grid row for constant-time cell lookups.
func IndexGrid(grid []models.ClassificationGridRow) map[string]models.ClassificationGridRow {
	m := make(map[string]models.ClassificationGridRow, len(grid))
	for _, r := range grid {
		m[r.UserID] = r
	}
	return m
}

// Pivot builds the rendered standings table of one category.
func Pivot(cc models.CategoryClassification) Table {
	sorted := SortTotals(cc.Totals)
	grid := IndexGrid(cc.Grid)

	rows := make([]Row, 0, len(sorted))
	for i, t := range sorted {
		row := Row{
			Position: i + 1,
			UserID:   t.UserID,
			Name:     t.Name,
			Nickname: t.Nickname,
			Total:    t.Total,
			Cells:    make([]Cell, 0, len(cc.Columns)),
		}
		g := grid[t.UserID]
		for _, col := range cc.Columns {
			raw, ok := g.Cells[col.ID]
			if !ok {
				row.Cells = append(row.Cells, Cell{ColumnID: col.ID})
				continue
			}
			row.Cells = append(row.Cells, Decorate(col.ID, raw))
		}
		rows = append(rows, row)
	}

	podium := rows
	if len(podium) > 3 {
		podium = podium[:3]
	}

	return Table{Columns: cc.Columns, Rows: rows, Podium: podium}
}
