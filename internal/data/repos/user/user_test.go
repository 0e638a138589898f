package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/zaryah/zaryah-backend/internal/data/repos/testutil"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	created, err := repo.Create(dbc, &types.User{
		Email:    "userrepo@example.com",
		Password: "pw",
		Profile: &types.Profile{
			Name:       "Alice Doe",
			Age:        30,
			Occupation: "Developer",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || created.Profile.UserID != created.ID {
		t.Fatalf("Create: ids not linked: user=%s profile.user_id=%s", created.ID, created.Profile.UserID)
	}
	if created.Profile.Subjects == nil {
		t.Fatalf("Create: subjects should default to an empty list")
	}
	if created.Profile.LearningPace != types.PaceMedium || created.Profile.AvailableHoursPerWeek != 5 {
		t.Fatalf("Create: defaults not applied: %+v", created.Profile)
	}

	testutil.SeedUser(t, ctx, tx, "bob@example.com", "Bob Stone", "Teacher", "Math")

	got, err := repo.FindByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Profile == nil || got.Profile.Name != "Alice Doe" {
		t.Fatalf("FindByID: unexpected result: %+v", got)
	}

	missing, err := repo.FindByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("FindByID(missing)=%v,%v, want nil,nil", missing, err)
	}

	byEmail, err := repo.FindByEmail(dbc, "bob@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.Profile.Occupation != "Teacher" {
		t.Fatalf("FindByEmail: unexpected result: %+v", byEmail)
	}

	all, err := repo.FindAll(dbc)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("FindAll: expected 2 users, got %d", len(all))
	}
	for _, u := range all {
		if u.Profile == nil {
			t.Fatalf("FindAll: profile not preloaded for %s", u.Email)
		}
	}

	n, err := repo.Count(dbc)
	if err != nil || n != 2 {
		t.Fatalf("Count()=%d,%v, want 2,nil", n, err)
	}

	exists, err := repo.EmailExists(dbc, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists()=%v,%v, want true,nil", exists, err)
	}

	byIDs, err := repo.FindByIDs(dbc, []uuid.UUID{created.ID, byEmail.ID})
	if err != nil || len(byIDs) != 2 {
		t.Fatalf("FindByIDs()=%d,%v, want 2,nil", len(byIDs), err)
	}
}

func TestUserRepoFindByNameContains(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedUser(t, ctx, tx, "fatima@example.com", "Fatima Ahmed", "Student")
	testutil.SeedUser(t, ctx, tx, "ahmad@example.com", "Ahmad Khan", "Engineer")
	testutil.SeedUser(t, ctx, tx, "pct@example.com", "100% Real", "Tester")

	cases := []struct {
		query string
		want  int
	}{
		{query: "fatima", want: 1},
		{query: "AHM", want: 2},
		{query: "khan", want: 1},
		{query: "%", want: 1},
		{query: "_", want: 0},
		{query: "nobody", want: 0},
		{query: "   ", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got, err := repo.FindByNameContains(dbc, tc.query)
			if err != nil {
				t.Fatalf("FindByNameContains(%q): %v", tc.query, err)
			}
			if len(got) != tc.want {
				t.Fatalf("FindByNameContains(%q)=%d users, want %d", tc.query, len(got), tc.want)
			}
		})
	}
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	mk := func() *types.User {
		return &types.User{Email: "dup@example.com", Password: "pw", Profile: &types.Profile{Name: "Dup"}}
	}
	if _, err := repo.Create(dbc, mk()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := repo.Create(dbc, mk())
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("second Create err=%v, want ErrConflict", err)
	}
}
