package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

// UserRepo is the User Store: users always come back with their Profile preloaded.
type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) (*types.User, error)
	FindAll(dbc dbctx.Context) ([]*types.User, error)
	FindByNameContains(dbc dbctx.Context, s string) ([]*types.User, error)
	FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	FindByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error)
	FindByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(dbc.Ctx)
}

// Create inserts the user and its profile atomically.
func (ur *userRepo) Create(dbc dbctx.Context, u *types.User) (*types.User, error) {
	if u == nil {
		return nil, fmt.Errorf("user required")
	}
	if u.Profile == nil {
		return nil, fmt.Errorf("profile required")
	}
	err := ur.tx(dbc).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(u).Error; err != nil {
			return err
		}
		u.Profile.UserID = u.ID
		return tx.Create(u.Profile).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: email already registered", apierr.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (ur *userRepo) FindAll(dbc dbctx.Context) ([]*types.User, error) {
	var results []*types.User
	if err := ur.tx(dbc).
		Preload("Profile").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) FindByNameContains(dbc dbctx.Context, s string) ([]*types.User, error) {
	s = strings.TrimSpace(s)
	var results []*types.User
	if s == "" {
		return results, nil
	}
	t := ur.tx(dbc)
	names := t.Session(&gorm.Session{NewDB: true}).
		Model(&types.Profile{}).
		Select("user_id").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	if err := t.
		Preload("Profile").
		Where("id IN (?)", names).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var u types.User
	if err := ur.tx(dbc).
		Preload("Profile").
		Where("id = ?", id).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) FindByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(ids) == 0 {
		return results, nil
	}
	if err := ur.tx(dbc).
		Preload("Profile").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) FindByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var u types.User
	if err := ur.tx(dbc).
		Preload("Profile").
		Where("email = ?", email).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := ur.tx(dbc).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := ur.tx(dbc).Model(&types.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
