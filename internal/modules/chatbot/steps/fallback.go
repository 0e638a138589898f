package steps

import (
	"fmt"
	"strings"
)

// TerminalResponse answers a request whose tool loop hit its round limit or was cancelled.
const TerminalResponse = "I could not complete this request. Please try asking in a simpler way."

const (
	fallbackGreeting    = "Hello! I'm Zaryah AI. I can help you find learners by occupation, subjects or goals, show profiles and send messages. What would you like to know?"
	fallbackUnavailable = "I'm having trouble reaching the assistant right now. Please try again in a moment."
	fallbackListLimit   = 5
)

var (
	countKeywords    = []string{"how many", "count", "total", "number of"}
	userKeywords     = []string{"user", "who", "people", "person", "find", "show", "list", "learner", "member"}
	greetingKeywords = []string{"hi", "hello", "hey", "good morning", "good evening"}
)

// FallbackResponse builds a canned answer from keywords of the query when the model is unavailable.
// It never returns an empty string.
func FallbackResponse(query string, relevant []ScoredUser, totalUsers int64) string {
	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case containsAny(q, countKeywords):
		return fmt.Sprintf("There are currently %d users registered on Zaryah.", totalUsers)
	case len(relevant) > 0 && containsAny(q, userKeywords):
		return listRelevant("Here are some users that match your question:", relevant)
	case isGreeting(q):
		return fallbackGreeting
	case len(relevant) > 0:
		return listRelevant("I can't give a full answer right now, but these users look related to your question:", relevant)
	default:
		return fallbackUnavailable
	}
}

func listRelevant(header string, relevant []ScoredUser) string {
	var b strings.Builder
	b.WriteString(header)
	for i, s := range relevant {
		if i == fallbackListLimit {
			break
		}
		card := NewUserCard(s.User).Profile
		b.WriteString("\n• ")
		b.WriteString(nonEmpty(card.Name, "Unnamed user"))
		if card.Occupation != "" {
			b.WriteString(" - ")
			b.WriteString(card.Occupation)
		}
		if card.EducationLevel != "" {
			fmt.Fprintf(&b, " (%s)", card.EducationLevel)
		}
	}
	return b.String()
}

func isGreeting(q string) bool {
	for _, w := range strings.Fields(q) {
		w = strings.Trim(w, "!.,?")
		for _, g := range greetingKeywords {
			if w == g {
				return true
			}
		}
	}
	for _, g := range greetingKeywords {
		if strings.Contains(g, " ") && strings.Contains(q, g) {
			return true
		}
	}
	return false
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func nonEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
