package steps

import (
	"sort"
	"strings"

	types "github.com/zaryah/zaryah-backend/internal/domain"
)

// ScoreRelevance ranks users against a free-text query and returns at most MaxRelevantUsers of
// them, best first. Users scoring zero are left out, so an empty query yields an empty result.
// Ties keep the order of users.
func ScoreRelevance(query string, users []*types.User) []ScoredUser {
	q := strings.ToLower(strings.TrimSpace(query))
	keywords := strings.Fields(q)
	if len(keywords) == 0 {
		return []ScoredUser{}
	}

	scored := make([]ScoredUser, 0, len(users))
	for _, u := range users {
		if u == nil || u.Profile == nil {
			continue
		}
		if s := scoreProfile(q, keywords, u.Profile); s > 0 {
			scored = append(scored, ScoredUser{User: u, Score: s, Query: query})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > MaxRelevantUsers {
		scored = scored[:MaxRelevantUsers]
	}
	return scored
}

func scoreProfile(q string, keywords []string, p *types.Profile) int {
	subjects := p.SubjectList()
	composite := strings.ToLower(strings.Join([]string{
		p.Name,
		p.Occupation,
		p.EducationLevel,
		p.LearningGoals,
		strings.Join(subjects, " "),
		p.PreviousExperience,
	}, " "))

	score := 0
	for _, kw := range keywords {
		if strings.Contains(composite, kw) {
			score += KeywordWeight
		}
	}

	if occ := strings.ToLower(strings.TrimSpace(p.Occupation)); occ != "" {
		if strings.Contains(q, occ) || strings.Contains(occ, q) {
			score += OccupationWeight
		}
	}

	for _, s := range subjects {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" && strings.Contains(q, s) {
			score += SubjectWeight
		}
	}
	return score
}

// RelevantUsers unwraps the users of a scored list, keeping order.
func RelevantUsers(scored []ScoredUser) []*types.User {
	out := make([]*types.User, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.User)
	}
	return out
}
