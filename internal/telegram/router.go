package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/bootcamp"
	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Service is what the chat commands need from the bootcamp engine.
type Service interface {
	Join(ctx context.Context, ref bootcamp.SessionRef, user string) (domain.Session, error)
	Quit(ctx context.Context, ref bootcamp.SessionRef, user string) (domain.Session, error)
	Subscribe(ctx context.Context, weekday time.Weekday, user string) error
	Unsubscribe(ctx context.Context, weekday time.Weekday, user string) error
	ScheduleOf(ctx context.Context, user string) (domain.Schedule, error)
	Leaderboard(ctx context.Context, year int, month time.Month) (domain.Leaderboard, error)
	Today() domain.Date
}

// Router wires Telegram updates to handlers.
type Router struct {
	bot              botAPI
	log              *zap.Logger
	svc              Service
	names            *Names
	schedulesEnabled bool
}

// NewRouter creates a new Telegram router.
func NewRouter(bot botAPI, log *zap.Logger, svc Service, names *Names, schedulesEnabled bool) *Router {
	return &Router{
		bot:              bot,
		log:              log,
		svc:              svc,
		names:            names,
		schedulesEnabled: schedulesEnabled,
	}
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	// Commands
	if upd.Message != nil {
		msg := upd.Message
		if msg.From == nil || !msg.IsCommand() {
			return
		}
		r.names.Remember(msg.From)

		switch msg.Command() {
		case "start", "help":
			r.reply(msg, helpText)
		case "bootcamp":
			r.handleBootcamp(ctx, msg)
		default:
			// Commands meant for other bots are ignored.
		}
		return
	}

	// Callback queries (session buttons)
	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.From == nil {
			return
		}
		r.names.Remember(cb.From)

		switch data := cb.Data; {
		case strings.HasPrefix(data, actionJoin):
			r.handleJoinButton(ctx, cb, strings.TrimPrefix(data, actionJoin))
		case strings.HasPrefix(data, actionQuit):
			r.handleQuitButton(ctx, cb, strings.TrimPrefix(data, actionQuit))
		default:
			_ = r.answerCallback(cb.ID, "")
		}
	}
}

// handleBootcamp parses "/bootcamp <sub> [args]".
func (r *Router) handleBootcamp(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(strings.ToLower(msg.CommandArguments()))
	if len(args) == 0 {
		r.reply(msg, helpText)
		return
	}
	switch args[0] {
	case "help":
		r.reply(msg, helpText)
	case "join":
		if len(args) > 1 && args[1] == "every" {
			r.handleJoinEvery(ctx, msg, args[2:])
			return
		}
		r.handleJoin(ctx, msg, refFromArgs(args[1:]))
	case "quit":
		if len(args) > 1 && args[1] == "every" {
			r.handleQuitEvery(ctx, msg, args[2:])
			return
		}
		r.handleQuit(ctx, msg, refFromArgs(args[1:]))
	case "leaderboard":
		r.handleLeaderboard(ctx, msg, args[1:])
	default:
		r.reply(msg, unknownText)
	}
}

// refFromArgs maps "[date [HH:MM]]" onto a session reference. A lone time
// refers to today.
func refFromArgs(args []string) bootcamp.SessionRef {
	switch len(args) {
	case 0:
		return bootcamp.SessionRef{}
	case 1:
		if strings.Contains(args[0], ":") {
			return bootcamp.ByDate("today", args[0])
		}
		return bootcamp.ByDate(args[0], "")
	default:
		return bootcamp.ByDate(args[0], args[1])
	}
}

// reply answers a command message in the same chat.
func (r *Router) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyToMessageID = msg.MessageID
	if _, err := r.bot.Send(out); err != nil {
		r.log.Warn("reply failed", zap.Error(err), zap.Int64("chatID", msg.Chat.ID))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}
