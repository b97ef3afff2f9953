package tgbot

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"brk-portal/internal/leads"
	"brk-portal/internal/logger"
	"brk-portal/internal/portal"
	"brk-portal/internal/session"
)

const flowVIP = "vip"

const (
	msgPickChampionship = "Escolha um campeonato primeiro."
	msgNotFound         = "Não encontrei esse campeonato ou temporada."
	msgAskName          = "⭐ Pré-cadastro VIP\nQual é o seu nome?"
	msgAskEmail         = "Agora, o seu email:"
	msgTryAgain         = "Digite novamente ou /cancelar."
	msgCancelled        = "Cancelado."
	msgDismissed        = "Aviso dispensado."
	msgRegistered       = "✅ Pré-cadastro realizado!"
)

// sender is the part of the Bot API the app talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type App struct {
	bot    sender
	api    *tgbotapi.BotAPI
	portal *portal.Service
	leads  leads.Submitter
	state  *session.Store

	wg sync.WaitGroup
}

func New(token string, p *portal.Service, l leads.Submitter) (*App, error) {
	b, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	a := newApp(b, p, l)
	a.api = b
	return a, nil
}

func newApp(bot sender, p *portal.Service, l leads.Submitter) *App {
	return &App{bot: bot, portal: p, leads: l, state: session.New()}
}

// Run polls updates until ctx is done. Callbacks that fetch data run in
// their own goroutines; Run waits for them before returning.
func (a *App) Run(ctx context.Context) error {
	if a.api == nil {
		return errors.New("tgbot: no bot api")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.api.GetUpdatesChan(u)
	defer a.wg.Wait()
	defer a.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				if err := a.handleMessage(ctx, upd.Message); err != nil {
					logger.Error("handle msg: %v", err)
				}
			} else if upd.CallbackQuery != nil {
				if err := a.handleCallback(ctx, upd.CallbackQuery); err != nil {
					logger.Error("handle cb: %v", err)
				}
			}
		}
	}
}

func (a *App) SendText(chatID int64, text string) error {
	return a.send(chatID, text, nil)
}

func (a *App) send(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := a.bot.Send(msg)
	return err
}

// async runs fn for the chat under a fresh generation. Results computed for
// an older generation are dropped by fn through sendIfCurrent.
func (a *App) async(chatID int64, fn func(gen uint64) error) {
	gen := a.state.Begin(chatID)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := fn(gen); err != nil {
			logger.Error("chat %d: %v", chatID, err)
		}
	}()
}

func (a *App) sendIfCurrent(chatID int64, gen uint64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	if !a.state.Current(chatID, gen) {
		return nil
	}
	return a.send(chatID, text, kb)
}

// ---------- Message handling ----------

func (a *App) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	chatID := m.Chat.ID
	txt := strings.TrimSpace(m.Text)

	switch {
	case strings.HasPrefix(txt, "/start"):
		a.state.ResetFlow(chatID)
		text, kb := renderMainMenu()
		return a.send(chatID, text, kb)
	case strings.HasPrefix(txt, "/cancelar"):
		a.state.ResetFlow(chatID)
		return a.SendText(chatID, msgCancelled)
	case strings.HasPrefix(txt, "/campeonatos"):
		a.showChampionships(ctx, chatID)
		return nil
	case strings.HasPrefix(txt, "/vip"):
		return a.startVIP(chatID)
	}

	if a.state.Get(chatID).Flow.Name == flowVIP {
		return a.handleVIPFlow(ctx, chatID, txt)
	}

	text, kb := renderMainMenu()
	return a.send(chatID, text, kb)
}

// ---------- Callback handling ----------

func (a *App) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID := q.From.ID
	if q.Message != nil && q.Message.Chat != nil {
		chatID = q.Message.Chat.ID
	}
	data := q.Data

	// ack
	_, _ = a.bot.Request(tgbotapi.NewCallback(q.ID, ""))

	switch data {
	case cbList:
		a.showChampionships(ctx, chatID)
		return nil
	case cbRanking:
		a.async(chatID, func(gen uint64) error {
			return a.sendIfCurrent(chatID, gen, renderRanking(a.portal.Ranking(ctx)), nil)
		})
		return nil
	case cbVIP:
		return a.startVIP(chatID)
	case cbDismiss:
		chat := a.state.Get(chatID)
		if chat.SeasonID != "" {
			a.state.Dismiss(chatID, chat.SeasonID)
		}
		return a.SendText(chatID, msgDismissed)
	}

	switch {
	case strings.HasPrefix(data, cbChampionship):
		a.showChampionship(ctx, chatID, strings.TrimPrefix(data, cbChampionship), "")
		return nil
	case strings.HasPrefix(data, cbSeason):
		chat := a.state.Get(chatID)
		if chat.Championship == "" {
			return a.SendText(chatID, msgPickChampionship)
		}
		a.showChampionship(ctx, chatID, chat.Championship, strings.TrimPrefix(data, cbSeason))
		return nil
	case strings.HasPrefix(data, cbCategory):
		return a.withSelection(chatID, func(chat session.Chat, gen uint64) error {
			return a.sendStandings(ctx, chatID, gen, chat, strings.TrimPrefix(data, cbCategory))
		})
	}

	switch data {
	case cbCalendar:
		return a.withSelection(chatID, func(chat session.Chat, gen uint64) error {
			cal, err := a.portal.Calendar(ctx, chat.Championship, chat.SeasonID, "")
			if err != nil {
				return a.notFound(chatID, gen, err)
			}
			return a.sendIfCurrent(chatID, gen, renderCalendar(cal), nil)
		})
	case cbNext:
		return a.withSelection(chatID, func(chat session.Chat, gen uint64) error {
			snap, err := a.portal.Countdown(ctx, chat.Championship, chat.SeasonID)
			if err != nil {
				return a.notFound(chatID, gen, err)
			}
			return a.sendIfCurrent(chatID, gen, renderCountdown(snap), nil)
		})
	case cbStandings:
		return a.withSelection(chatID, func(chat session.Chat, gen uint64) error {
			return a.sendStandings(ctx, chatID, gen, chat, "")
		})
	case cbRegulations:
		return a.withSelection(chatID, func(chat session.Chat, gen uint64) error {
			groups, err := a.portal.Regulations(ctx, chat.Championship)
			if err != nil {
				return a.notFound(chatID, gen, err)
			}
			return a.sendIfCurrent(chatID, gen, renderRegulations(groups), nil)
		})
	}
	return nil
}

// withSelection runs fn asynchronously with the chat's current championship
// and season, or asks the user to pick a championship.
func (a *App) withSelection(chatID int64, fn func(chat session.Chat, gen uint64) error) error {
	chat := a.state.Get(chatID)
	if chat.Championship == "" {
		return a.SendText(chatID, msgPickChampionship)
	}
	a.async(chatID, func(gen uint64) error { return fn(chat, gen) })
	return nil
}

func (a *App) notFound(chatID int64, gen uint64, err error) error {
	if errors.Is(err, portal.ErrNotFound) {
		return a.sendIfCurrent(chatID, gen, msgNotFound, nil)
	}
	return err
}

// ---------- Screens ----------

func (a *App) showChampionships(ctx context.Context, chatID int64) {
	a.async(chatID, func(gen uint64) error {
		text, kb := renderChampionships(a.portal.Championships(ctx, "", ""))
		return a.sendIfCurrent(chatID, gen, text, kb)
	})
}

// showChampionship loads the championship and makes it (and the season in
// focus) the chat's selection, unless a newer request got there first.
func (a *App) showChampionship(ctx context.Context, chatID int64, id, seasonID string) {
	a.async(chatID, func(gen uint64) error {
		d, err := a.portal.Championship(ctx, id, seasonID)
		if err != nil {
			return a.notFound(chatID, gen, err)
		}
		applied := a.state.ApplyIfCurrent(chatID, gen, func(c *session.Chat) {
			c.Championship = d.Championship.ID
			c.SeasonID = ""
			if d.Season != nil {
				c.SeasonID = d.Season.ID
			}
		})
		if !applied {
			return nil
		}
		notice := d.PreRegistrationOpen && d.Season != nil && !a.state.Dismissed(chatID, d.Season.ID)
		text, kb := renderDetail(d, notice)
		return a.sendIfCurrent(chatID, gen, text, kb)
	})
}

func (a *App) sendStandings(ctx context.Context, chatID int64, gen uint64, chat session.Chat, categoryID string) error {
	st, err := a.portal.Standings(ctx, chat.Championship, chat.SeasonID, categoryID)
	if err != nil {
		return a.notFound(chatID, gen, err)
	}
	text, kb := renderStandings(st)
	return a.sendIfCurrent(chatID, gen, text, kb)
}

// ---------- VIP lead flow ----------

func (a *App) startVIP(chatID int64) error {
	a.state.Update(chatID, func(c *session.Chat) {
		c.Flow = session.Flow{Name: flowVIP, Step: 1, Data: map[string]string{}}
	})
	return a.SendText(chatID, msgAskName)
}

func (a *App) handleVIPFlow(ctx context.Context, chatID int64, txt string) error {
	flow := a.state.Get(chatID).Flow

	switch flow.Step {
	case 1:
		name, msg := leads.ValidateName(txt)
		if msg != "" {
			return a.SendText(chatID, msg+". "+msgTryAgain)
		}
		a.state.Update(chatID, func(c *session.Chat) {
			c.Flow.Data[leads.FieldName] = name
			c.Flow.Step = 2
		})
		return a.SendText(chatID, msgAskEmail)
	case 2:
		var form leads.Form
		form.Set(leads.FieldName, flow.Data[leads.FieldName])
		form.Set(leads.FieldEmail, txt)
		if !form.Submit(ctx, a.leads) {
			if msg := form.Errors[leads.FieldEmail]; msg != "" {
				return a.SendText(chatID, msg+". "+msgTryAgain)
			}
			if msg := form.Errors[leads.FieldName]; msg != "" {
				a.state.ResetFlow(chatID)
				return a.SendText(chatID, msg+". Comece de novo com /vip.")
			}
			return a.SendText(chatID, form.SubmitError+"\n"+msgTryAgain)
		}
		a.state.ResetFlow(chatID)
		text := msgRegistered
		if form.Message != "" {
			text += "\n" + form.Message
		}
		return a.SendText(chatID, esc(text))
	default:
		a.state.ResetFlow(chatID)
		return a.startVIP(chatID)
	}
}
