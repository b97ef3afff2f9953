package standings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brk-portal/internal/models"
)

func fixture() models.CategoryClassification {
	return models.CategoryClassification{
		Totals: []models.ClassificationTotal{
			{UserID: "u1", Name: "Ana", Total: 40},
			{UserID: "u2", Name: "Bruno", Nickname: "Brunão", Total: 55},
			{UserID: "u3", Name: "Caio", Total: 40},
			{UserID: "u4", Name: "Duda", Total: 12.5},
		},
		Columns: []models.ClassificationColumn{
			{ID: "e1b1", Label: "E1 B1"},
			{ID: "e1b2", Label: "E1 B2"},
		},
		Grid: []models.ClassificationGridRow{
			{UserID: "u1", Cells: map[string]models.ClassificationCell{
				"e1b1": {Token: "1º", Points: 25},
				"e1b2": {Token: "4º", Points: 15, DiscardStage: true},
			}},
			{UserID: "u2", Cells: map[string]models.ClassificationCell{
				"e1b1": {Token: "2º", Points: 20, HadPenalty: true},
				"e1b2": {Token: "1º", Points: 35, DiscardBattery: true, HadPenalty: true},
			}},
			{UserID: "u3", Cells: map[string]models.ClassificationCell{
				"e1b1": {Token: "3º", Points: 40},
			}},
		},
	}
}

func TestPivotSortsDescendingStable(t *testing.T) {
	tbl := Pivot(fixture())

	require.Len(t, tbl.Rows, 4)
	names := []string{tbl.Rows[0].Name, tbl.Rows[1].Name, tbl.Rows[2].Name, tbl.Rows[3].Name}
	// Ana and Caio tie on 40 and keep their input order
	assert.Equal(t, []string{"Bruno", "Ana", "Caio", "Duda"}, names)
	for i, r := range tbl.Rows {
		assert.Equal(t, i+1, r.Position)
	}
}

func TestPivotDoesNotMutateInput(t *testing.T) {
	cc := fixture()
	Pivot(cc)
	assert.Equal(t, "Ana", cc.Totals[0].Name)
}

func TestPivotDecoratesCells(t *testing.T) {
	tbl := Pivot(fixture())

	bruno := tbl.Rows[0]
	require.Len(t, bruno.Cells, 2)
	assert.Equal(t, TonePenalty, bruno.Cells[0].Tone)
	assert.False(t, bruno.Cells[0].Struck)
	assert.Equal(t, []string{BadgePenalty}, bruno.Cells[0].Badges)

	// both flags: struck, penalty tone, both badges
	assert.True(t, bruno.Cells[1].Struck)
	assert.Equal(t, TonePenalty, bruno.Cells[1].Tone)
	assert.Equal(t, []string{BadgeDiscard, BadgePenalty}, bruno.Cells[1].Badges)

	ana := tbl.Rows[1]
	assert.Empty(t, ana.Cells[0].Badges)
	assert.True(t, ana.Cells[1].Struck)
	assert.Equal(t, []string{BadgeDiscard}, ana.Cells[1].Badges)
	assert.Equal(t, 15.0, ana.Cells[1].Points)
}

func TestPivotSparseCells(t *testing.T) {
	tbl := Pivot(fixture())

	caio := tbl.Rows[2]
	assert.True(t, caio.Cells[0].Present)
	assert.False(t, caio.Cells[1].Present)
	assert.Equal(t, "e1b2", caio.Cells[1].ColumnID)

	// no grid row at all
	duda := tbl.Rows[3]
	require.Len(t, duda.Cells, 2)
	assert.False(t, duda.Cells[0].Present)
	assert.False(t, duda.Cells[1].Present)
}

func TestPodium(t *testing.T) {
	tbl := Pivot(fixture())
	require.Len(t, tbl.Podium, 3)
	assert.Equal(t, "Bruno", tbl.Podium[0].Name)
	assert.Equal(t, "Caio", tbl.Podium[2].Name)

	small := Pivot(models.CategoryClassification{Totals: []models.ClassificationTotal{{UserID: "x", Total: 1}}})
	assert.Len(t, small.Podium, 1)

	empty := Pivot(models.CategoryClassification{})
	assert.Empty(t, empty.Rows)
	assert.Empty(t, empty.Podium)
}

func TestIndexGrid(t *testing.T) {
	m := IndexGrid(fixture().Grid)
	assert.Len(t, m, 3)
	assert.Equal(t, 25.0, m["u1"].Cells["e1b1"].Points)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Pivot(fixture())))

	want := "position,name,nickname,total,E1 B1,E1 B2\n" +
		"1,Bruno,Brunão,55,20P,(35)P\n" +
		"2,Ana,,40,25,(15)\n" +
		"3,Caio,,40,40,\n" +
		"4,Duda,,12.5,,\n"
	assert.Equal(t, want, buf.String())
}
