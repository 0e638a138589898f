package steps

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemInstructions = `You are Zaryah AI, the assistant of the Zaryah learning platform. You help members find and understand other learners.

Rules:
- When the user greets you or makes small talk, answer briefly and do not list user data.
- Only share information about users when the question asks for it.
- When asked about a specific user, cite the concrete profile fields (occupation, education level, subjects, learning goals, strengths, availability and so on).
- Format lists of users or facts as bullet points, one user per bullet.
- Refer to users by their full name exactly as it appears in their profile.
- Use the search_users, get_user_profile and send_message tools when the question needs data beyond the profiles below or asks you to contact someone.
- Never invent users or profile values that are not in the data or in tool results.`

// BuildContextPrompt assembles the system prompt for one chatbot request: fixed instructions, the
// relevant profiles as JSON cards, then the question.
func BuildContextPrompt(relevant []ScoredUser, totalUsers int64, query string) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The platform has %d registered users.\n", totalUsers)

	if len(relevant) == 0 {
		b.WriteString("No user profiles matched this question directly. Use the tools if the question needs user data.\n")
	} else {
		fmt.Fprintf(&b, "The %d profiles most relevant to this question, most relevant first:\n", len(relevant))
		cards := NewUserCards(RelevantUsers(relevant))
		raw, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			// Cards only hold strings, ints and slices.
			raw = []byte("[]")
		}
		b.Write(raw)
		b.WriteString("\n")
	}

	b.WriteString("\nUser question: ")
	b.WriteString(query)
	return b.String()
}
