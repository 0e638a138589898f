package message

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/zaryah/zaryah-backend/internal/data/repos/testutil"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
)

func TestMessageRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewMessageRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	alice := testutil.SeedUser(t, ctx, tx, "alice@example.com", "Alice", "Developer")
	bob := testutil.SeedUser(t, ctx, tx, "bob@example.com", "Bob", "Teacher")

	m, err := repo.Create(dbc, alice.ID, bob.ID, "hello bob")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Read {
		t.Fatalf("Create: new message should be unread")
	}
	testutil.SeedMessage(t, ctx, tx, alice.ID, bob.ID, "second")

	if _, err := repo.Create(dbc, alice.ID, bob.ID, "   "); err == nil {
		t.Fatalf("Create with blank content: expected error")
	}

	inbox, err := repo.ListForReceiver(dbc, bob.ID, false, 10)
	if err != nil {
		t.Fatalf("ListForReceiver: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("ListForReceiver: got %d messages, want 2", len(inbox))
	}

	// Only the receiver may flip the read flag.
	ok, err := repo.MarkRead(dbc, m.ID, alice.ID)
	if err != nil || ok {
		t.Fatalf("MarkRead(sender)=%v,%v, want false,nil", ok, err)
	}
	ok, err = repo.MarkRead(dbc, m.ID, bob.ID)
	if err != nil || !ok {
		t.Fatalf("MarkRead(receiver)=%v,%v, want true,nil", ok, err)
	}

	unread, err := repo.CountUnread(dbc, bob.ID)
	if err != nil || unread != 1 {
		t.Fatalf("CountUnread()=%d,%v, want 1,nil", unread, err)
	}
	unreadList, err := repo.ListForReceiver(dbc, bob.ID, true, 10)
	if err != nil || len(unreadList) != 1 {
		t.Fatalf("ListForReceiver(unread)=%d,%v, want 1,nil", len(unreadList), err)
	}

	got, err := repo.GetByID(dbc, m.ID)
	if err != nil || got == nil || !got.Read || got.Content != "hello bob" {
		t.Fatalf("GetByID()=%+v,%v", got, err)
	}
	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing)=%v,%v, want nil,nil", missing, err)
	}
}

func TestMessageRepoRejectsUnknownUsers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewMessageRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	bob := testutil.SeedUser(t, ctx, tx, "bob@example.com", "Bob", "Teacher")
	gone := testutil.SeedUser(t, ctx, tx, "gone@example.com", "Gone", "Student")
	if err := tx.WithContext(ctx).Delete(gone).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	cases := []struct {
		name     string
		sender   uuid.UUID
		receiver uuid.UUID
	}{
		{"unknown sender", uuid.New(), bob.ID},
		{"unknown receiver", bob.ID, uuid.New()},
		{"deleted sender", gone.ID, bob.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := repo.Create(dbc, tc.sender, tc.receiver, "hi")
			if !errors.Is(err, ErrUnknownUser) || m != nil {
				t.Fatalf("Create()=%v,%v, want nil,ErrUnknownUser", m, err)
			}
		})
	}

	var n int64
	if err := tx.WithContext(ctx).Table("message").Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("message rows=%d,%v, want 0", n, err)
	}

	if _, err := repo.Create(dbc, bob.ID, bob.ID, "note to self"); err != nil {
		t.Fatalf("Create(self): %v", err)
	}
}
