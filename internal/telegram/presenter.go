package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// botAPI is the subset of *tgbotapi.BotAPI used here.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Presenter posts sessions and leaderboards to the bootcamp chat. The handle
// of a posted session is its message id; updates edit that message.
type Presenter struct {
	bot    botAPI
	chatID int64
	names  *Names
	today  func() domain.Date
}

func NewPresenter(bot botAPI, chatID int64, names *Names, today func() domain.Date) *Presenter {
	return &Presenter{bot: bot, chatID: chatID, names: names, today: today}
}

// Present posts s with its buttons and returns the message id.
func (p *Presenter) Present(_ context.Context, s domain.Session) (string, error) {
	msg := tgbotapi.NewMessage(p.chatID, renderSession(s, p.today(), p.names))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = sessionKeyboard(s.ID)
	sent, err := p.bot.Send(msg)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(sent.MessageID), nil
}

// Update edits the posted message of s. Sessions that were never posted are
// skipped.
func (p *Presenter) Update(_ context.Context, s domain.Session) error {
	if s.Handle == "" {
		return nil
	}
	messageID, err := strconv.Atoi(s.Handle)
	if err != nil {
		return fmt.Errorf("bad message handle %q: %w", s.Handle, err)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		p.chatID, messageID, renderSession(s, p.today(), p.names), sessionKeyboard(s.ID),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := p.bot.Request(edit); err != nil && !notModified(err) {
		return err
	}
	return nil
}

// PresentLeaderboard posts a monthly leaderboard.
func (p *Presenter) PresentLeaderboard(_ context.Context, lb domain.Leaderboard) error {
	msg := tgbotapi.NewMessage(p.chatID, renderLeaderboard(lb, p.names))
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := p.bot.Send(msg)
	return err
}

// Telegram rejects edits that leave a message unchanged.
func notModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
