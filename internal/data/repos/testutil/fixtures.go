package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/zaryah/zaryah-backend/internal/domain"
)

// SeedUser inserts a user with a profile named name. Subjects may be empty.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, name, occupation string, subjects ...string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Omit("Profile").Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	p := &types.Profile{
		UserID:         u.ID,
		Name:           name,
		Age:            25,
		Occupation:     occupation,
		EducationLevel: "Bachelor's",
		Subjects:       datatypes.JSONSlice[string](append([]string{}, subjects...)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	u.Profile = p
	return u
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, senderID, receiverID uuid.UUID, content string) *types.Message {
	tb.Helper()
	m := &types.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}
