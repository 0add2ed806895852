package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go.uber.org/zap"

	"evmarket/internal/models"
)

type stubUserStore struct {
	users   map[string]*models.User
	upserts int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]*models.User)}
}

func (s *stubUserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserStore) Upsert(ctx context.Context, user *models.User) error {
	s.upserts++
	copied := *user
	s.users[user.UserID] = &copied
	return nil
}

func (s *stubUserStore) Delete(ctx context.Context, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, userID)
	return nil
}

func TestGetOrCreateProvisionsDefaultProfile(t *testing.T) {
	store := newStubUserStore()
	svc := NewUserService(store, zap.NewNop())

	user, err := svc.GetOrCreate(context.Background(), "user_42")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if user.Name != "EV User" {
		t.Fatalf("expected default name, got %q", user.Name)
	}
	if user.Email != "user_42@example.com" {
		t.Fatalf("expected derived email, got %q", user.Email)
	}
	if store.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", store.upserts)
	}

	// second call is a pure read
	again, err := svc.GetOrCreate(context.Background(), "user_42")
	if err != nil {
		t.Fatalf("repeat GetOrCreate: %v", err)
	}
	if store.upserts != 1 {
		t.Fatalf("repeat read must not write, got %d upserts", store.upserts)
	}
	if again.Email != user.Email {
		t.Fatalf("expected stable profile, got %q vs %q", again.Email, user.Email)
	}
}

func TestUpsertMergesPartialUpdate(t *testing.T) {
	store := newStubUserStore()
	store.users["user_42"] = &models.User{
		UserID: "user_42",
		Name:   "EV User",
		Email:  "user_42@example.com",
		Phone:  "+91-9000000000",
	}
	svc := NewUserService(store, zap.NewNop())

	name := "Asha"
	user, err := svc.Upsert(context.Background(), "user_42", UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if user.Name != "Asha" {
		t.Fatalf("expected updated name, got %q", user.Name)
	}
	if user.Email != "user_42@example.com" || user.Phone != "+91-9000000000" {
		t.Fatalf("untouched fields must survive, got %+v", user)
	}
}

func TestUpsertCreatesProfileWhenAbsent(t *testing.T) {
	store := newStubUserStore()
	svc := NewUserService(store, zap.NewNop())

	phone := "+91-9111111111"
	user, err := svc.Upsert(context.Background(), "user_new", UpdateProfileInput{Phone: &phone})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if user.UserID != "user_new" {
		t.Fatalf("expected path user id to win, got %q", user.UserID)
	}
	if user.Name != "EV User" || user.Phone != phone {
		t.Fatalf("expected default profile with phone applied, got %+v", user)
	}
}

func TestDeleteUser(t *testing.T) {
	store := newStubUserStore()
	store.users["user_42"] = &models.User{UserID: "user_42"}
	svc := NewUserService(store, zap.NewNop())

	if err := svc.Delete(context.Background(), "user_42"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	err := svc.Delete(context.Background(), "user_42")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
