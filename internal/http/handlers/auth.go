package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zaryah/zaryah-backend/internal/http/response"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email                 string   `json:"email" binding:"required,email"`
	Password              string   `json:"password" binding:"required"`
	Name                  string   `json:"name" binding:"required"`
	Age                   int      `json:"age" binding:"required,gt=0"`
	EducationLevel        string   `json:"educationLevel"`
	Occupation            string   `json:"occupation"`
	LearningGoals         string   `json:"learningGoals"`
	Subjects              []string `json:"subjects"`
	LearningStyle         string   `json:"learningStyle"`
	PreviousExperience    string   `json:"previousExperience"`
	Strengths             string   `json:"strengths"`
	Weaknesses            string   `json:"weaknesses"`
	SpecificChallenges    string   `json:"specificChallenges"`
	AvailableHoursPerWeek int      `json:"availableHoursPerWeek" binding:"gte=0"`
	LearningPace          string   `json:"learningPace" binding:"omitempty,oneof=Slow Medium Fast"`
	MotivationLevel       string   `json:"motivationLevel" binding:"omitempty,oneof=Low Medium High"`
}

// POST /api/auth/signup
func (ah *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := ah.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:                 req.Email,
		Password:              req.Password,
		Name:                  req.Name,
		Age:                   req.Age,
		EducationLevel:        req.EducationLevel,
		Occupation:            req.Occupation,
		LearningGoals:         req.LearningGoals,
		Subjects:              req.Subjects,
		LearningStyle:         req.LearningStyle,
		PreviousExperience:    req.PreviousExperience,
		Strengths:             req.Strengths,
		Weaknesses:            req.Weaknesses,
		SpecificChallenges:    req.SpecificChallenges,
		AvailableHoursPerWeek: req.AvailableHoursPerWeek,
		LearningPace:          req.LearningPace,
		MotivationLevel:       req.MotivationLevel,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message":    "User created successfully",
		"token":      res.Token,
		"expires_in": int(ah.authService.GetAccessTTL().Seconds()),
		"user":       res.User,
	})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":    "Login successful",
		"token":      res.Token,
		"expires_in": int(ah.authService.GetAccessTTL().Seconds()),
		"user":       res.User,
	})
}
