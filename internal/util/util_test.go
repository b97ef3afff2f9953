package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalDateKeepsCalendarDay(t *testing.T) {
	zones := []string{"America/Sao_Paulo", "America/Los_Angeles", "Pacific/Kiritimati", "UTC", "Asia/Tokyo"}
	inputs := []struct {
		in      string
		y, m, d int
	}{
		{"2025-03-01", 2025, 3, 1},
		{"2025-03-01T00:00:00", 2025, 3, 1},
		{"2024-12-31T23:59:59", 2024, 12, 31},
		{"2024-02-29", 2024, 2, 29},
	}

	for _, z := range zones {
		loc, err := time.LoadLocation(z)
		require.NoError(t, err)
		for _, tc := range inputs {
			got, err := ParseLocalDate(tc.in, loc)
			require.NoError(t, err, "%s in %s", tc.in, z)
			assert.Equal(t, tc.y, got.Year(), "%s in %s", tc.in, z)
			assert.Equal(t, time.Month(tc.m), got.Month(), "%s in %s", tc.in, z)
			assert.Equal(t, tc.d, got.Day(), "%s in %s", tc.in, z)
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, loc, got.Location())
		}
	}
}

func TestParseLocalDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2025-3-1", "01/03/2025", "2025-13-01", "2025-02-30", "abcd-ef-gh"} {
		_, err := ParseLocalDate(in, time.UTC)
		assert.ErrorIs(t, err, ErrBadDate, in)
	}
}

func TestSameDay(t *testing.T) {
	sp, _ := time.LoadLocation("America/Sao_Paulo")
	a := time.Date(2025, 5, 10, 0, 0, 0, 0, sp)
	// 02:00 UTC on the 11th is still the 10th in São Paulo
	b := time.Date(2025, 5, 11, 2, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, a.AddDate(0, 0, 1)))
}

func TestFormatTime(t *testing.T) {
	cases := map[string]string{
		"14:30:00": "14:30",
		"900":      "09:00",
		"1400":     "14:00",
		"08:05":    "08:05",
		"8:05":     "08:05",
		"8:05:59":  "08:05",
		" 10:00 ":  "10:00",
		"":         "",
		"manhã":    "manhã",
		"14h30":    "14h30",
		"12345":    "12345",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatTime(in), in)
	}

	// idempotent
	assert.Equal(t, FormatTime("900"), FormatTime(FormatTime("900")))
}

func TestClockOf(t *testing.T) {
	h, m, ok := ClockOf("930")
	require.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, ok = ClockOf("25:00")
	assert.False(t, ok)
	_, _, ok = ClockOf("")
	assert.False(t, ok)
}

func TestMonthIndex(t *testing.T) {
	for _, in := range []string{"JAN", "Janeiro", "jan", "jan."} {
		idx, ok := MonthIndex(in)
		assert.True(t, ok, in)
		assert.Equal(t, 0, idx, in)
	}

	idx, ok := MonthIndex("Março")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = MonthIndex("marco")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = MonthIndex("DEZ")
	assert.True(t, ok)
	assert.Equal(t, 11, idx)

	idx, ok = MonthIndex("Brumário")
	assert.False(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMonthAbbrAndWeekday(t *testing.T) {
	assert.Equal(t, "MAR", MonthAbbr(time.March))
	assert.Equal(t, "", MonthAbbr(time.Month(13)))
	assert.Equal(t, "Sábado", WeekdayName(time.Saturday))
	assert.Equal(t, "Domingo", WeekdayName(time.Sunday))
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Fórmula É Kart!":         "formula-e-kart",
		"  Copa   São João  ":     "copa-sao-joao",
		"Campeonato - Light 2025": "campeonato-light-2025",
		"Açaí & Cia":              "acai-cia",
		"":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestHMAC(t *testing.T) {
	tok := HMACSHA256Hex("secret", "export:a:b")
	assert.Len(t, tok, 64)
	assert.True(t, ValidHMAC("secret", "export:a:b", tok))
	assert.False(t, ValidHMAC("other", "export:a:b", tok))
}
