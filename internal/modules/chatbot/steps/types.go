package steps

import (
	"github.com/google/uuid"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
)

const (
	MaxRelevantUsers     = 15
	MaxSearchResults     = 15
	DefaultMaxToolRounds = 5

	KeywordWeight    = 10
	OccupationWeight = 50
	SubjectWeight    = 30
)

const DataSourcePostgres = "postgresql"

// UserStore is the read side of the user repository the chatbot needs.
type UserStore interface {
	FindAll(dbc dbctx.Context) ([]*types.User, error)
	FindByNameContains(dbc dbctx.Context, s string) ([]*types.User, error)
	FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	Count(dbc dbctx.Context) (int64, error)
}

// MessageStore persists messages sent through the send_message tool.
type MessageStore interface {
	Create(dbc dbctx.Context, senderID, receiverID uuid.UUID, content string) (*types.Message, error)
}

// ScoredUser pairs a user with the relevance score a query produced for it.
type ScoredUser struct {
	User  *types.User
	Score int
	Query string
}

// ProfileCard is the profile as shown to the model and to clients. Missing values are replaced by
// empty strings, zero and an empty subject list so every field is always present.
type ProfileCard struct {
	Name                  string   `json:"name"`
	Age                   int      `json:"age"`
	EducationLevel        string   `json:"educationLevel"`
	Occupation            string   `json:"occupation"`
	LearningGoals         string   `json:"learningGoals"`
	Subjects              []string `json:"subjects"`
	LearningStyle         string   `json:"learningStyle"`
	PreviousExperience    string   `json:"previousExperience"`
	Strengths             string   `json:"strengths"`
	Weaknesses            string   `json:"weaknesses"`
	SpecificChallenges    string   `json:"specificChallenges"`
	AvailableHoursPerWeek int      `json:"availableHoursPerWeek"`
	LearningPace          string   `json:"learningPace"`
	MotivationLevel       string   `json:"motivationLevel"`
	City                  string   `json:"city"`
	Country               string   `json:"country"`
}

type UserCard struct {
	ID      uuid.UUID   `json:"id"`
	Email   string      `json:"email"`
	Profile ProfileCard `json:"profile"`
}

// NewUserCard renders u for prompts and responses. u must not be nil.
func NewUserCard(u *types.User) UserCard {
	card := UserCard{ID: u.ID, Email: u.Email, Profile: ProfileCard{Subjects: []string{}}}
	p := u.Profile
	if p == nil {
		return card
	}
	card.Profile = ProfileCard{
		Name:                  p.Name,
		Age:                   p.Age,
		EducationLevel:        p.EducationLevel,
		Occupation:            p.Occupation,
		LearningGoals:         p.LearningGoals,
		Subjects:              p.SubjectList(),
		LearningStyle:         p.LearningStyle,
		PreviousExperience:    p.PreviousExperience,
		Strengths:             p.Strengths,
		Weaknesses:            p.Weaknesses,
		SpecificChallenges:    p.SpecificChallenges,
		AvailableHoursPerWeek: p.AvailableHoursPerWeek,
		LearningPace:          p.LearningPace,
		MotivationLevel:       p.MotivationLevel,
		City:                  deref(p.City),
		Country:               deref(p.Country),
	}
	return card
}

func NewUserCards(users []*types.User) []UserCard {
	out := make([]UserCard, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, NewUserCard(u))
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func profileName(u *types.User) string {
	if u == nil || u.Profile == nil {
		return ""
	}
	return u.Profile.Name
}
