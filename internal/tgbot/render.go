package tgbot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"brk-portal/internal/championships"
	"brk-portal/internal/countdown"
	"brk-portal/internal/events"
	"brk-portal/internal/models"
	"brk-portal/internal/portal"
	"brk-portal/internal/standings"
)

// callback data prefixes
const (
	cbList         = "c:list"
	cbChampionship = "c:"
	cbSeason       = "s:"
	cbCategory     = "k:"
	cbCalendar     = "v:cal"
	cbNext         = "v:next"
	cbStandings    = "v:std"
	cbRegulations  = "v:reg"
	cbVIP          = "v:vip"
	cbDismiss      = "v:dismiss"
	cbRanking      = "r:rank"
)

const maxStandingsRows = 30

var medals = [3]string{"🥇", "🥈", "🥉"}

func esc(s string) string { return html.EscapeString(s) }

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func keyboard(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func renderMainMenu() (string, *tgbotapi.InlineKeyboardMarkup) {
	text := "🏁 <b>BRK</b>\nCampeonatos, calendário e classificação do kart amador."
	return text, keyboard(
		tgbotapi.NewInlineKeyboardRow(button("🏁 Campeonatos", cbList)),
		tgbotapi.NewInlineKeyboardRow(
			button("🏆 Ranking", cbRanking),
			button("⭐ Pré-cadastro VIP", cbVIP),
		),
	)
}

func renderChampionships(cards []championships.Card) (string, *tgbotapi.InlineKeyboardMarkup) {
	if len(cards) == 0 {
		return "Nenhum campeonato encontrado.", nil
	}
	var b strings.Builder
	b.WriteString("🏁 <b>Campeonatos</b>\n")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cards))
	for _, c := range cards {
		fmt.Fprintf(&b, "\n<b>%s</b> (%s)", esc(c.Name), statusLabel(c.Status))
		if c.ShortDescription != "" {
			fmt.Fprintf(&b, "\n%s", esc(c.ShortDescription))
		}
		b.WriteString("\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(c.Name, cbChampionship+c.ID)))
	}
	return b.String(), keyboard(rows...)
}

func statusLabel(status string) string {
	switch status {
	case championships.StatusUpcoming:
		return "em breve"
	case championships.StatusFinished:
		return "encerrado"
	default:
		return "em andamento"
	}
}

// renderDetail shows the championship with its season picker and views.
// notice adds the VIP pre-registration call to action.
func renderDetail(d portal.Detail, notice bool) (string, *tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 <b>%s</b>\n", esc(d.Championship.Name))
	if d.Championship.ShortDescription != "" {
		fmt.Fprintf(&b, "%s\n", esc(d.Championship.ShortDescription))
	}
	if d.Season != nil {
		fmt.Fprintf(&b, "\nTemporada: <b>%s</b>", esc(d.Season.Name))
		if len(d.Categories) > 0 {
			names := make([]string, 0, len(d.Categories))
			for _, c := range d.Categories {
				names = append(names, c.Name)
			}
			fmt.Fprintf(&b, "\nCategorias: %s", esc(strings.Join(names, ", ")))
		}
	} else {
		b.WriteString("\nNenhuma temporada cadastrada.")
	}
	if notice {
		b.WriteString("\n\n⭐ Pré-cadastro exclusivo aberto para pilotos da temporada anterior!")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if len(d.Seasons) > 1 {
		row := []tgbotapi.InlineKeyboardButton{}
		for _, s := range d.Seasons {
			label := s.Name
			if d.Season != nil && s.ID == d.Season.ID {
				label = "✓ " + label
			}
			row = append(row, button(label, cbSeason+s.ID))
		}
		rows = append(rows, row)
	}
	if d.Season != nil {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(button("📅 Calendário", cbCalendar), button("⏱ Próxima etapa", cbNext)),
			tgbotapi.NewInlineKeyboardRow(button("🏆 Classificação", cbStandings), button("📜 Regulamento", cbRegulations)),
		)
	}
	if notice {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("⭐ Quero me pré-cadastrar", cbVIP),
			button("✖ Dispensar aviso", cbDismiss),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("⬅ Campeonatos", cbList)))
	return b.String(), keyboard(rows...)
}

func renderCalendar(cal portal.Calendar) string {
	if len(cal.Events) == 0 {
		return "Nenhuma etapa cadastrada para esta temporada."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>Calendário %s</b>\n", esc(cal.Championship.Name))
	for _, ev := range cal.Events {
		b.WriteString("\n")
		writeEvent(&b, ev)
	}
	return b.String()
}

func writeEvent(b *strings.Builder, ev events.Event) {
	fmt.Fprintf(b, "<b>%s</b>\n", esc(ev.Name))
	fmt.Fprintf(b, "%s, %s %s %d", ev.Weekday, ev.Day, ev.Month, ev.Year)
	if ev.Time != "" {
		fmt.Fprintf(b, " às %s", esc(ev.Time))
	}
	b.WriteString("\n")
	if ev.Location != "" {
		fmt.Fprintf(b, "📍 %s", esc(ev.Location))
		if ev.TrackLayout != "" {
			fmt.Fprintf(b, " (%s)", esc(ev.TrackLayout))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s\n", ev.Status)
}

func renderCountdown(snap countdown.Snapshot) string {
	switch snap.State {
	case countdown.TodayEvent:
		var b strings.Builder
		b.WriteString("🏁 <b>Hoje tem Etapa!</b>\n\n")
		writeEvent(&b, *snap.Event)
		if snap.Event.StreamLink != "" {
			fmt.Fprintf(&b, "\n📺 %s", esc(snap.Event.StreamLink))
		}
		return b.String()
	case countdown.CountingDown:
		r := snap.Remaining
		var b strings.Builder
		fmt.Fprintf(&b, "⏱ Faltam <b>%d dias, %02dh %02dmin %02ds</b>\n\n", r.Days, r.Hours, r.Minutes, r.Seconds)
		writeEvent(&b, *snap.Event)
		return b.String()
	default:
		return "Nenhuma etapa programada."
	}
}

func renderStandings(st portal.Standings) (string, *tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	if len(st.Categories) > 1 {
		row := []tgbotapi.InlineKeyboardButton{}
		for _, c := range st.Categories {
			label := c.Name
			if st.Category != nil && c.ID == st.Category.ID {
				label = "✓ " + label
			}
			row = append(row, button(label, cbCategory+c.ID))
		}
		rows = append(rows, row)
	}
	var kb *tgbotapi.InlineKeyboardMarkup
	if len(rows) > 0 {
		kb = keyboard(rows...)
	}

	if st.Category == nil || len(st.Table.Rows) == 0 {
		return "Classificação ainda não disponível.", kb
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 <b>%s</b>\n", esc(st.Category.Name))
	for i, r := range st.Table.Rows {
		if i == maxStandingsRows {
			fmt.Fprintf(&b, "\n… e mais %d pilotos", len(st.Table.Rows)-maxStandingsRows)
			break
		}
		pos := fmt.Sprintf("%d.", r.Position)
		if i < len(medals) {
			pos = medals[i]
		}
		name := r.Name
		if r.Nickname != "" {
			name += " (" + r.Nickname + ")"
		}
		fmt.Fprintf(&b, "\n%s %s: <b>%s</b> pts%s", pos, esc(name), points(r.Total), marks(r.Cells))
	}
	if st.LastUpdated != "" {
		fmt.Fprintf(&b, "\n\nAtualizado em %s", esc(st.LastUpdated))
	}
	return b.String(), kb
}

func points(p float64) string {
	s := fmt.Sprintf("%.1f", p)
	return strings.TrimSuffix(s, ".0")
}

// marks summarises discards and penalties of a row.
func marks(cells []standings.Cell) string {
	discards, penalties := 0, 0
	for _, c := range cells {
		if c.Struck {
			discards++
		}
		if c.Tone == standings.TonePenalty {
			penalties++
		}
	}
	var parts []string
	if discards > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", discards, standings.BadgeDiscard))
	}
	if penalties > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", penalties, standings.BadgePenalty))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func renderRegulations(groups []championships.RegulationGroup) string {
	if len(groups) == 0 {
		return "Nenhum regulamento publicado."
	}
	var b strings.Builder
	b.WriteString("📜 <b>Regulamento</b>\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "\n<b>%s</b>\n", esc(g.Season.Name))
		for i, r := range g.Regulations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, esc(r.Title))
		}
	}
	return b.String()
}

func renderRanking(entries []models.RankingEntry) string {
	if len(entries) == 0 {
		return "Ranking ainda não disponível."
	}
	var b strings.Builder
	b.WriteString("🏆 <b>Ranking geral</b>\n")
	for i, e := range entries {
		if i == maxStandingsRows {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s: <b>%s</b> pts", e.Position, esc(e.Name), points(e.Points))
	}
	return b.String()
}
