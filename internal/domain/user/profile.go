package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaceSlow   = "Slow"
	PaceMedium = "Medium"
	PaceFast   = "Fast"

	MotivationLow    = "Low"
	MotivationMedium = "Medium"
	MotivationHigh   = "High"

	DefaultHoursPerWeek = 5
)

// Profile holds the learning and identity attributes of a User. Exactly one per user.
type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"userId"`

	Name           string `gorm:"not null;index;column:name" json:"name"`
	Age            int    `gorm:"not null;default:0;column:age" json:"age"`
	EducationLevel string `gorm:"not null;default:'';column:education_level" json:"educationLevel"`
	Occupation     string `gorm:"not null;default:'';column:occupation" json:"occupation"`
	LearningGoals  string `gorm:"type:text;not null;default:'';column:learning_goals" json:"learningGoals"`

	Subjects datatypes.JSONSlice[string] `gorm:"column:subjects" json:"subjects"`

	LearningStyle         string `gorm:"not null;default:'';column:learning_style" json:"learningStyle"`
	PreviousExperience    string `gorm:"type:text;not null;default:'';column:previous_experience" json:"previousExperience"`
	Strengths             string `gorm:"type:text;not null;default:'';column:strengths" json:"strengths"`
	Weaknesses            string `gorm:"type:text;not null;default:'';column:weaknesses" json:"weaknesses"`
	SpecificChallenges    string `gorm:"type:text;not null;default:'';column:specific_challenges" json:"specificChallenges"`
	AvailableHoursPerWeek int    `gorm:"not null;default:5;column:available_hours_per_week" json:"availableHoursPerWeek"`
	LearningPace          string `gorm:"not null;default:'Medium';column:learning_pace" json:"learningPace"`
	MotivationLevel       string `gorm:"not null;default:'Medium';column:motivation_level" json:"motivationLevel"`

	Latitude       *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude      *float64 `gorm:"column:longitude" json:"longitude,omitempty"`
	City           *string  `gorm:"column:city" json:"city,omitempty"`
	Country        *string  `gorm:"column:country" json:"country,omitempty"`
	ProfilePicture *string  `gorm:"column:profile_picture" json:"profilePicture,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Profile) TableName() string { return "profile" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Normalize()
	return nil
}

// Normalize fills the defaults applied when a profile is created through signup.
func (p *Profile) Normalize() {
	if p.Subjects == nil {
		p.Subjects = datatypes.JSONSlice[string]{}
	}
	if p.AvailableHoursPerWeek <= 0 {
		p.AvailableHoursPerWeek = DefaultHoursPerWeek
	}
	if p.LearningPace == "" {
		p.LearningPace = PaceMedium
	}
	if p.MotivationLevel == "" {
		p.MotivationLevel = MotivationMedium
	}
}

// SubjectList returns the subjects as a plain slice, never nil.
func (p *Profile) SubjectList() []string {
	if p == nil || len(p.Subjects) == 0 {
		return []string{}
	}
	return []string(p.Subjects)
}
