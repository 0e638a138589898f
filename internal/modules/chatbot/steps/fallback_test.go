package steps

import (
	"strings"
	"testing"

	types "github.com/zaryah/zaryah-backend/internal/domain"
)

func TestFallbackResponse(t *testing.T) {
	alice := newUser("Alice", "Developer", withEducation("Bachelor's"))
	relevant := ScoreRelevance("developer", []*types.User{alice})

	cases := []struct {
		name     string
		query    string
		relevant []ScoredUser
		contains string
	}{
		{name: "count", query: "How many users are there?", relevant: relevant, contains: "7 users"},
		{name: "users listed", query: "show me developer users", relevant: relevant, contains: "• Alice - Developer (Bachelor's)"},
		{name: "greeting", query: "Hi!", contains: "Zaryah AI"},
		{name: "relevant without keyword", query: "developer", relevant: relevant, contains: "Alice"},
		{name: "nothing to say", query: "quantum chromodynamics", contains: "try again"},
		{name: "empty query", query: "", contains: "try again"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackResponse(tc.query, tc.relevant, 7)
			if strings.TrimSpace(got) == "" {
				t.Fatalf("FallbackResponse(%q) is empty", tc.query)
			}
			if !strings.Contains(got, tc.contains) {
				t.Fatalf("FallbackResponse(%q)=%q, want it to contain %q", tc.query, got, tc.contains)
			}
		})
	}
}

func TestFallbackResponseListLimit(t *testing.T) {
	users := []*types.User{}
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		users = append(users, newUser(n, "Nurse"))
	}
	got := FallbackResponse("find nurse", ScoreRelevance("nurse", users), 7)
	if n := strings.Count(got, "•"); n != fallbackListLimit {
		t.Fatalf("bullets=%d, want %d", n, fallbackListLimit)
	}
}
