package util

import (
	"strings"
	"time"
)

var monthAbbr = [12]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

var monthFull = [12]string{
	"janeiro", "fevereiro", "marco", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var weekdays = [7]string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, 24)
	for i := range monthAbbr {
		m[strings.ToLower(monthAbbr[i])] = i
		m[monthFull[i]] = i
	}
	return m
}()

// MonthIndex resolves a Portuguese month abbreviation or full name to a
// zero-based index. ok is false for anything it does not recognise; the
// returned index is then 0 and callers must not use it as January.
func MonthIndex(name string) (idx int, ok bool) {
	key := strings.ToLower(Fold(strings.TrimSpace(name)))
	key = strings.TrimSuffix(key, ".")
	idx, ok = monthIndex[key]
	return idx, ok
}

// MonthAbbr is the three-letter upper-case label used on event cards.
func MonthAbbr(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbr[m-1]
}

func WeekdayName(d time.Weekday) string {
	return weekdays[d]
}
