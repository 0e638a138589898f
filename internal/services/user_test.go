package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/ctxutil"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

func TestUserServiceLookups(t *testing.T) {
	repo := &fakeUserRepo{}
	alice := repo.add("alice@example.com", "Alice", 30)
	repo.add("bob@example.com", "Bob", 40)
	svc := NewUserService(logger.Nop(), repo)
	ctx := context.Background()

	all, err := svc.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List=%d,%v", len(all), err)
	}

	cases := []struct {
		name       string
		identifier string
		wantID     string
		wantStatus int
	}{
		{"by id", alice.ID.String(), alice.ID.String(), 0},
		{"by email", "alice@example.com", alice.ID.String(), 0},
		{"unknown email", "nobody@example.com", "", http.StatusNotFound},
		{"unknown id", "00000000-0000-0000-0000-000000000001", "", http.StatusNotFound},
		{"blank", "  ", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := svc.GetByIdentifier(ctx, tc.identifier)
			if tc.wantStatus != 0 {
				if status, _ := statusOf(t, err); status != tc.wantStatus {
					t.Fatalf("status=%d, want %d", status, tc.wantStatus)
				}
				return
			}
			if err != nil || u.ID.String() != tc.wantID {
				t.Fatalf("GetByIdentifier(%q)=%v,%v", tc.identifier, u, err)
			}
		})
	}
}

func TestUserServiceGetMe(t *testing.T) {
	repo := &fakeUserRepo{}
	alice := repo.add("alice@example.com", "Alice", 30)
	svc := NewUserService(logger.Nop(), repo)

	if _, err := svc.GetMe(context.Background()); err == nil {
		t.Fatalf("GetMe anonymous: want error")
	} else if status, _ := apierr.StatusOf(err); status != http.StatusUnauthorized {
		t.Fatalf("GetMe anonymous status=%d", status)
	}

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: alice.ID})
	me, err := svc.GetMe(ctx)
	if err != nil || me.ID != alice.ID {
		t.Fatalf("GetMe=%v,%v", me, err)
	}
}
