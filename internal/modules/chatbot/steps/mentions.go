package steps

import (
	"strings"

	"github.com/google/uuid"

	types "github.com/zaryah/zaryah-backend/internal/domain"
)

// MentionDetector finds the users referred to in an answer. Implementations must only return users
// whose name actually occurs in text.
type MentionDetector interface {
	Detect(text string, users []*types.User) []*types.User
}

// SubstringMentionDetector matches a user when their lower-cased name is a substring of the
// lower-cased text.
type SubstringMentionDetector struct{}

func (SubstringMentionDetector) Detect(text string, users []*types.User) []*types.User {
	out := []*types.User{}
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return out
	}
	seen := map[uuid.UUID]bool{}
	for _, u := range users {
		if u == nil || seen[u.ID] {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(profileName(u)))
		if name == "" || !strings.Contains(lower, name) {
			continue
		}
		seen[u.ID] = true
		out = append(out, u)
	}
	return out
}
