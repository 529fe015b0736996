package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/bootcamp"
	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// --- Session commands ---

func (r *Router) handleJoin(ctx context.Context, msg *tgbotapi.Message, ref bootcamp.SessionRef) {
	sess, err := r.svc.Join(ctx, ref, userID(msg.From))
	if err != nil {
		r.reply(msg, r.errorText(err, "join"))
		return
	}
	r.reply(msg, "You're in for "+describeSession(sess)+" 💪")
}

func (r *Router) handleQuit(ctx context.Context, msg *tgbotapi.Message, ref bootcamp.SessionRef) {
	sess, err := r.svc.Quit(ctx, ref, userID(msg.From))
	if err != nil {
		r.reply(msg, r.errorText(err, "quit"))
		return
	}
	r.reply(msg, "You're off the list for "+describeSession(sess)+".")
}

// --- Recurring schedules ---

func (r *Router) handleJoinEvery(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if !r.schedulesEnabled {
		r.reply(msg, disabledText)
		return
	}
	weekday, ok := r.weekdayArg(msg, args)
	if !ok {
		return
	}
	user := userID(msg.From)

	previous, err := r.svc.ScheduleOf(ctx, user)
	hadOther := err == nil && previous.Weekday != weekday

	if err := r.svc.Subscribe(ctx, weekday, user); err != nil {
		r.reply(msg, r.errorText(err, "subscribe"))
		return
	}
	text := fmt.Sprintf("From now on you'll join every %s. Sessions that are already posted are not changed.", weekday)
	if hadOther {
		text += fmt.Sprintf(" This replaces your %s schedule.", previous.Weekday)
	}
	r.reply(msg, text)
}

func (r *Router) handleQuitEvery(ctx context.Context, msg *tgbotapi.Message, args []string) {
	weekday, ok := r.weekdayArg(msg, args)
	if !ok {
		return
	}
	if err := r.svc.Unsubscribe(ctx, weekday, userID(msg.From)); err != nil {
		r.reply(msg, r.errorText(err, "unsubscribe"))
		return
	}
	r.reply(msg, fmt.Sprintf("You won't be added to %s sessions automatically anymore.", weekday))
}

func (r *Router) weekdayArg(msg *tgbotapi.Message, args []string) (weekday time.Weekday, ok bool) {
	if len(args) == 0 {
		r.reply(msg, "Which day? For example <code>/bootcamp join every tuesday</code>.")
		return 0, false
	}
	w, err := domain.ParseWeekday(args[0])
	if err != nil {
		r.reply(msg, "That's not a weekday I know.")
		return 0, false
	}
	return w, true
}

// --- Leaderboard ---

func (r *Router) handleLeaderboard(ctx context.Context, msg *tgbotapi.Message, args []string) {
	today := r.svc.Today()
	year, month := today.Year, today.Month
	if len(args) > 0 {
		y, m, err := domain.ParseYearMonth(args[0])
		if err != nil {
			r.reply(msg, "Use <code>/bootcamp leaderboard YYYY-MM</code>.")
			return
		}
		year, month = y, m
	}
	lb, err := r.svc.Leaderboard(ctx, year, month)
	if err != nil {
		r.reply(msg, r.errorText(err, "leaderboard"))
		return
	}
	r.reply(msg, renderLeaderboard(lb, r.names)+"\n\n"+renderStanding(lb, userID(msg.From)))
}

// --- Buttons ---

func (r *Router) handleJoinButton(ctx context.Context, cb *tgbotapi.CallbackQuery, sessionID string) {
	text := "You're in 💪"
	if _, err := r.svc.Join(ctx, bootcamp.ByID(sessionID), userID(cb.From)); err != nil {
		text = r.errorText(err, "join")
	}
	if err := r.answerCallback(cb.ID, text); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}

func (r *Router) handleQuitButton(ctx context.Context, cb *tgbotapi.CallbackQuery, sessionID string) {
	text := "Maybe next time!"
	if _, err := r.svc.Quit(ctx, bootcamp.ByID(sessionID), userID(cb.From)); err != nil {
		text = r.errorText(err, "quit")
	}
	if err := r.answerCallback(cb.ID, text); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}

// errorText maps engine errors onto user-facing messages and logs the rest.
func (r *Router) errorText(err error, op string) string {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		return fullText
	case errors.Is(err, domain.ErrNotFound) && op == "subscribe":
		return noSlotText
	case errors.Is(err, domain.ErrNotFound):
		return noSessionText
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidWeekday):
		return badInputText
	}
	r.log.Error(op+" failed", zap.Error(err))
	return internalErrorText
}
