package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainerrors "shopsync/contexts/identity/user-service/domain/errors"
	"shopsync/contexts/identity/user-service/ports"
)

type testRepo struct {
	users map[string]ports.User
}

func newTestRepo() *testRepo {
	return &testRepo{users: make(map[string]ports.User)}
}

func (r *testRepo) CreateUser(_ context.Context, user ports.User) (ports.User, error) {
	r.users[user.UserID] = user
	return user, nil
}

func (r *testRepo) GetUser(_ context.Context, userID string) (ports.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (r *testRepo) UpdateDisplayName(_ context.Context, userID string, displayName string, now time.Time) (ports.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	user.DisplayName = displayName
	user.UpdatedAt = now
	r.users[userID] = user
	return user, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type staticIDs struct {
	id string
}

func (g staticIDs) NewID(_ context.Context) (string, error) { return g.id, nil }

func newTestService(repo *testRepo) Service {
	return Service{
		Repo:  repo,
		Clock: fixedClock{now: time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)},
		IDGen: staticIDs{id: "user-1"},
	}
}

func TestCreateUserWithoutDisplayName(t *testing.T) {
	service := newTestService(newTestRepo())

	user, err := service.CreateUser(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.UserID != "user-1" {
		t.Fatalf("expected generated id, got %q", user.UserID)
	}
	if user.DisplayName != "" {
		t.Fatalf("expected empty display name, got %q", user.DisplayName)
	}
}

func TestCreateUserRejectsOversizedName(t *testing.T) {
	service := newTestService(newTestRepo())

	_, err := service.CreateUser(context.Background(), strings.Repeat("x", maxDisplayNameLength+1))
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpdateDisplayName(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, "anon"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	user, err := service.UpdateDisplayName(ctx, "user-1", "  Asha  ")
	if err != nil {
		t.Fatalf("UpdateDisplayName: %v", err)
	}
	if user.DisplayName != "Asha" {
		t.Fatalf("expected trimmed display name, got %q", user.DisplayName)
	}
}

func TestUpdateDisplayNameUnknownUser(t *testing.T) {
	service := newTestService(newTestRepo())

	_, err := service.UpdateDisplayName(context.Background(), "missing", "Asha")
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateDisplayNameRequiresName(t *testing.T) {
	service := newTestService(newTestRepo())

	_, err := service.UpdateDisplayName(context.Background(), "user-1", "   ")
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
