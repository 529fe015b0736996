package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Callback data prefixes of the session buttons.
const (
	actionJoin = "join:"
	actionQuit = "quit:"
)

// UI texts in English
const (
	helpText = "🏋️ <b>Bootcamp</b>\n\n" +
		"• <code>/bootcamp join</code> join the next session\n" +
		"• <code>/bootcamp join tuesday 07:00</code> join a specific session (today, tomorrow, a weekday or YYYY-MM-DD)\n" +
		"• <code>/bootcamp quit [day [HH:MM]]</code> remove yourself again\n" +
		"• <code>/bootcamp join every tuesday</code> join every Tuesday from now on\n" +
		"• <code>/bootcamp quit every tuesday</code> stop joining every Tuesday\n" +
		"• <code>/bootcamp leaderboard [YYYY-MM]</code> who showed up the most\n\n" +
		"Or just hit the buttons under a session."
	unknownText       = "I didn't catch that. Try <code>/bootcamp join</code> to join the next session or <code>/bootcamp quit</code> to remove yourself from the next session."
	disabledText      = "This command is disabled!"
	fullText          = "Sorry, that session is full."
	noSessionText     = "I couldn't find a session for that day."
	noSlotText        = "There are no bootcamp sessions on that day."
	badInputText      = "I didn't understand that. Use today, tomorrow, a weekday or YYYY-MM-DD, optionally followed by HH:MM."
	internalErrorText = "Something went wrong. Please try again later."
	nobodyText        = "<i>Nobody is joining so far...</i>"
)

// sessionKeyboard builds the Join / Stay Home buttons under a session post.
func sessionKeyboard(sessionID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💪 Join Bootcamp", actionJoin+sessionID),
			tgbotapi.NewInlineKeyboardButtonData("🛋 Stay Home", actionQuit+sessionID),
		),
	)
}

// renderSession returns the HTML body of a session post.
func renderSession(s domain.Session, today domain.Date, names *Names) string {
	return renderIntro(s, today) + "\n\n" + renderParticipants(s, names)
}

func renderIntro(s domain.Session, today domain.Date) string {
	at := ""
	if s.Time != nil {
		at = " at " + s.Time.String()
	}
	switch s.Date {
	case today:
		return "<b>Ready to sweat today" + at + "?</b> 🥵"
	case today.Tomorrow():
		return "<b>Ready to sweat tomorrow" + at + "?</b> 🥵"
	}
	return "Who joined on " + s.Date.Human() + at + ":"
}

func renderParticipants(s domain.Session, names *Names) string {
	if len(s.Participants) == 0 {
		return nobodyText
	}
	count := ""
	if limit, ok := s.Capacity(); ok {
		count = fmt.Sprintf(" (%d/%d)", len(s.Participants), limit)
	}
	mentions := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		mentions = append(mentions, mention(p, names))
	}
	if len(mentions) == 1 {
		return mentions[0] + " is joining 💪" + count
	}
	return list(mentions) + " are joining" + count
}

// list joins items as "a, b and c".
func list(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// mention links numeric Telegram ids to the user; other ids are shown as text.
func mention(id string, names *Names) string {
	name := html.EscapeString(names.Name(id))
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return name
	}
	return `<a href="tg://user?id=` + id + `">` + name + `</a>`
}

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

func renderLeaderboard(lb domain.Leaderboard, names *Names) string {
	title := fmt.Sprintf("%s %d", lb.Month, lb.Year)
	if len(lb.Entries) == 0 {
		return "Nobody joined a bootcamp in " + title + " yet."
	}
	var b strings.Builder
	b.WriteString("🏆 <b>Bootcamp leaderboard " + title + "</b>\n")
	for _, e := range lb.Entries {
		medal := medals[e.Rank]
		if medal == "" {
			medal = strconv.Itoa(e.Rank) + "."
		}
		fmt.Fprintf(&b, "\n%s %s: %s", medal, mention(e.Participant, names), sessionsWord(e.Attendances))
	}
	return b.String()
}

func renderStanding(lb domain.Leaderboard, user string) string {
	e, ok := lb.Find(user)
	if !ok {
		return "You haven't joined any session this month yet."
	}
	return fmt.Sprintf("You're #%d with %s.", e.Rank, sessionsWord(e.Attendances))
}

func sessionsWord(n int) string {
	if n == 1 {
		return "1 session"
	}
	return strconv.Itoa(n) + " sessions"
}

func describeSession(s domain.Session) string {
	if s.Time != nil {
		return s.Date.Human() + " at " + s.Time.String()
	}
	return s.Date.Human()
}
