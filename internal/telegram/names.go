package telegram

import (
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Names remembers display names of users seen in updates (non-persistent,
// in-memory). Unknown ids render as the id itself.
type Names struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewNames() *Names {
	return &Names{names: make(map[string]string)}
}

// Remember records the display name of u.
func (n *Names) Remember(u *tgbotapi.User) {
	if n == nil || u == nil {
		return
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.UserName != "" {
		name = "@" + u.UserName
	}
	if name == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.names[userID(u)] = name
}

// Name returns the display name for id.
func (n *Names) Name(id string) string {
	if n == nil {
		return id
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if name, ok := n.names[id]; ok {
		return name
	}
	return id
}

// userID is the participant id used for a Telegram user.
func userID(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}
