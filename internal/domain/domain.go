package domain

import (
	"github.com/zaryah/zaryah-backend/internal/domain/social"
	"github.com/zaryah/zaryah-backend/internal/domain/user"
)

const (
	PaceSlow   = user.PaceSlow
	PaceMedium = user.PaceMedium
	PaceFast   = user.PaceFast

	MotivationLow    = user.MotivationLow
	MotivationMedium = user.MotivationMedium
	MotivationHigh   = user.MotivationHigh
)

type User = user.User
type Profile = user.Profile
type Message = social.Message

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&user.Profile{},
		&social.Message{},
	}
}
