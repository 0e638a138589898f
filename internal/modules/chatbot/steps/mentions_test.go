package steps

import (
	"strings"
	"testing"

	types "github.com/zaryah/zaryah-backend/internal/domain"
)

func TestSubstringMentionDetector(t *testing.T) {
	alice := newUser("Alice Smith", "Developer")
	bob := newUser("Bob", "Teacher")
	unnamed := newUser("", "Ghost")
	noProfile := &types.User{Email: "np@example.com"}
	users := []*types.User{alice, bob, unnamed, noProfile, nil, alice}

	cases := []struct {
		name string
		text string
		want []*types.User
	}{
		{name: "case-insensitive", text: "You should talk to ALICE SMITH and bob.", want: []*types.User{alice, bob}},
		{name: "partial name does not match", text: "Alice is great", want: []*types.User{}},
		{name: "empty text", text: "", want: []*types.User{}},
		{name: "no names", text: "Nobody matches here.", want: []*types.User{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SubstringMentionDetector{}.Detect(tc.text, users)
			if len(got) != len(tc.want) {
				t.Fatalf("Detect()=%d users, want %d", len(got), len(tc.want))
			}
			for i, u := range got {
				if u != tc.want[i] {
					t.Fatalf("Detect()[%d]=%s, want %s", i, profileName(u), profileName(tc.want[i]))
				}
				if !strings.Contains(strings.ToLower(tc.text), strings.ToLower(profileName(u))) {
					t.Fatalf("%q is not in the text", profileName(u))
				}
			}
		})
	}
}
