package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	// GetByIdentifier looks the user up by id first, then by email.
	GetByIdentifier(ctx context.Context, identifier string) (*types.User, error)
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.FindAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*types.User{}
	}
	return users, nil
}

func (us *userService) GetByIdentifier(ctx context.Context, identifier string) (*types.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, userNotFound()
	}
	dbc := dbctx.Context{Ctx: ctx}
	if id, err := uuid.Parse(identifier); err == nil {
		u, err := us.userRepo.FindByID(dbc, id)
		if err != nil {
			return nil, fmt.Errorf("find user by id: %w", err)
		}
		if u != nil {
			return u, nil
		}
	}
	u, err := us.userRepo.FindByEmail(dbc, identifier)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return nil, userNotFound()
	}
	return u, nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.FindByID(dbctx.Context{Ctx: ctx}, callerID)
	if err != nil {
		return nil, fmt.Errorf("find caller: %w", err)
	}
	if u == nil {
		return nil, userNotFound()
	}
	return u, nil
}

func userNotFound() error {
	return apierr.New(http.StatusNotFound, "user_not_found", fmt.Errorf("%w: User not found", apierr.ErrNotFound))
}
