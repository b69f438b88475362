package notification

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/mobcash"
)

type fakeBackend struct {
	page       mobcash.Page[mobcash.Notification]
	registered []mobcash.DeviceRegistration
	deleted    []string
}

func (f *fakeBackend) Notifications(_ context.Context, _ *mobcash.Tokens, _ int) (mobcash.Page[mobcash.Notification], error) {
	return f.page, nil
}

func (f *fakeBackend) RegisterDevice(_ context.Context, _ *mobcash.Tokens, in mobcash.DeviceRegistration) error {
	f.registered = append(f.registered, in)
	return nil
}

func (f *fakeBackend) DeleteDevice(_ context.Context, _ *mobcash.Tokens, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestRedisFlashStoreDrains(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisFlashStore(rdb, time.Minute)
	ctx := context.Background()

	n := NewNotifier(&fakeBackend{}, store, logging.Discard())
	n.Success(ctx, "sid", "Connexion réussie!")
	n.Success(ctx, "sid", "Profil mis à jour avec succès!")
	n.Success(ctx, "", "ignored without session")

	flashes, err := n.Drain(ctx, "sid")
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(flashes) != 2 || flashes[0].Level != LevelSuccess || flashes[1].Message != "Profil mis à jour avec succès!" {
		t.Fatalf("unexpected flashes %+v", flashes)
	}
	again, err := n.Drain(ctx, "sid")
	if err != nil || len(again) != 0 {
		t.Fatalf("expected empty queue after drain, got %v %v", again, err)
	}
}

func TestMemoryFlashStoreBounded(t *testing.T) {
	store := NewMemoryFlashStore()
	ctx := context.Background()
	for i := 0; i < maxQueued+5; i++ {
		_ = store.Push(ctx, "sid", Flash{Level: LevelSuccess, Message: "m"})
	}
	flashes, _ := store.Drain(ctx, "sid")
	if len(flashes) != maxQueued {
		t.Fatalf("expected %d flashes, got %d", maxQueued, len(flashes))
	}
}

func TestInboxPaging(t *testing.T) {
	backend := &fakeBackend{page: mobcash.Page[mobcash.Notification]{
		Count:   12,
		Next:    "https://api/mobcash/notification?page=2",
		Results: []mobcash.Notification{{ID: 1, IsRead: false}, {ID: 2, IsRead: true}},
	}}
	n := NewNotifier(backend, NewMemoryFlashStore(), logging.Discard())

	page, err := n.Inbox(context.Background(), &mobcash.Tokens{}, 0)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if page.Page != 1 || !page.HasNext || page.HasPrevious || page.Unread != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestRegisterDeviceDefaultsToWeb(t *testing.T) {
	backend := &fakeBackend{}
	n := NewNotifier(backend, NewMemoryFlashStore(), logging.Discard())

	if err := n.RegisterDevice(context.Background(), &mobcash.Tokens{}, "u1", " tok ", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	got := backend.registered[0]
	if got.RegistrationID != "tok" || got.Type != DefaultDeviceType || got.UserID != "u1" {
		t.Fatalf("unexpected registration %+v", got)
	}
}
