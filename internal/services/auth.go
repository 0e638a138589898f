package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/ctxutil"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

const (
	DefaultAccessTTL = 7 * 24 * time.Hour
	bcryptCost       = 10
)

var (
	errInvalidCredentials = errors.New("Invalid email or password")
	errInvalidToken       = errors.New("Invalid or expired token")
)

type JWTClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignupInput carries the registration form. Email, Password, Name and Age are required.
type SignupInput struct {
	Email                 string
	Password              string
	Name                  string
	Age                   int
	EducationLevel        string
	Occupation            string
	LearningGoals         string
	Subjects              []string
	LearningStyle         string
	PreviousExperience    string
	Strengths             string
	Weaknesses            string
	SpecificChallenges    string
	AvailableHoursPerWeek int
	LearningPace          string
	MotivationLevel       string
}

type AuthResult struct {
	Token string
	User  *types.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

// ProfileIndexer is the part of the vector index signup needs.
type ProfileIndexer interface {
	IndexUser(ctx context.Context, u *types.User) error
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	indexer      ProfileIndexer
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

// NewAuthService builds the signup/login service. indexer may be nil when no vector index is
// configured.
func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	indexer ProfileIndexer,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		indexer:      indexer,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Age <= 0 {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("Missing required fields"))
	}
	dbc := dbctx.Context{Ctx: ctx}

	exists, err := as.userRepo.EmailExists(dbc, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, emailTaken()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &types.Profile{
		Name:                  in.Name,
		Age:                   in.Age,
		EducationLevel:        in.EducationLevel,
		Occupation:            in.Occupation,
		LearningGoals:         in.LearningGoals,
		Subjects:              datatypes.JSONSlice[string](append([]string{}, in.Subjects...)),
		LearningStyle:         in.LearningStyle,
		PreviousExperience:    in.PreviousExperience,
		Strengths:             in.Strengths,
		Weaknesses:            in.Weaknesses,
		SpecificChallenges:    in.SpecificChallenges,
		AvailableHoursPerWeek: in.AvailableHoursPerWeek,
		LearningPace:          in.LearningPace,
		MotivationLevel:       in.MotivationLevel,
	}
	profile.Normalize()

	user, err := as.userRepo.Create(dbc, &types.User{
		ID:       uuid.New(),
		Email:    in.Email,
		Password: string(hashed),
		Profile:  profile,
	})
	if errors.Is(err, apierr.ErrConflict) {
		return nil, emailTaken()
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if as.indexer != nil {
		if ixErr := as.indexer.IndexUser(ctx, user); ixErr != nil {
			as.log.Warn("Profile indexing failed; continuing signup", "user_id", user.ID, "error", ixErr)
		}
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	as.log.Info("User signed up", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("Email and password are required"))
	}
	user, err := as.userRepo.FindByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}
	token, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken verifies tokenString and attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("Access token required"))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		as.log.Debug("Token rejected", "error", err)
		return ctx, apierr.New(http.StatusForbidden, "invalid_token", errInvalidToken)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.New(http.StatusForbidden, "invalid_token", errInvalidToken)
	}
	rawID := claims.UserID
	if rawID == "" {
		rawID = claims.Subject
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return ctx, apierr.New(http.StatusForbidden, "invalid_token", errInvalidToken)
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       claims.Email,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func emailTaken() error {
	return apierr.New(http.StatusBadRequest, "email_taken", errors.New("User with this email already exists"))
}

func invalidCredentials() error {
	return apierr.New(http.StatusUnauthorized, "invalid_credentials", errInvalidCredentials)
}
