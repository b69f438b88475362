package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/mobcash"
)

type fakeBackend struct {
	networkCalls  int
	platformCalls int
	settingsCalls int
}

func (f *fakeBackend) Networks(_ context.Context, _ *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Network, error) {
	f.networkCalls++
	return []mobcash.Network{
		{ID: 1, Name: "moov", ActiveForDeposit: true, ActiveForWith: false},
		{ID: 2, Name: "orange", ActiveForDeposit: true, ActiveForWith: true},
		{ID: 3, Name: "wave", ActiveForDeposit: false, ActiveForWith: true},
	}, nil
}

func intp(v int) *int { return &v }

func (f *fakeBackend) Platforms(_ context.Context, _ *mobcash.Tokens, _ mobcash.Kind) ([]mobcash.Platform, error) {
	f.platformCalls++
	return []mobcash.Platform{
		{ID: "c", Name: "Zeta", Enable: true},
		{ID: "a", Name: "1xbet", Enable: true, Order: intp(2)},
		{ID: "b", Name: "Melbet", Enable: true, Order: intp(1)},
		{ID: "d", Name: "Alpha", Enable: true},
		{ID: "e", Name: "Off", Enable: false, Order: intp(0)},
	}, nil
}

func (f *fakeBackend) Settings(_ context.Context, _ *mobcash.Tokens) (mobcash.Settings, error) {
	f.settingsCalls++
	return mobcash.Settings{"moov_marchand_phone": "70000000"}, nil
}

func TestNetworksFilteredByKind(t *testing.T) {
	svc := NewService(&fakeBackend{}, nil, logging.Discard())
	ctx := context.Background()

	dep, _ := svc.Networks(ctx, &mobcash.Tokens{}, mobcash.KindDeposit)
	if len(dep) != 2 || dep[0].ID != 1 || dep[1].ID != 2 {
		t.Fatalf("unexpected deposit networks %+v", dep)
	}
	wd, _ := svc.Networks(ctx, &mobcash.Tokens{}, mobcash.KindWithdrawal)
	if len(wd) != 2 || wd[0].ID != 2 || wd[1].ID != 3 {
		t.Fatalf("unexpected withdrawal networks %+v", wd)
	}
}

func TestPlatformsOrdering(t *testing.T) {
	svc := NewService(&fakeBackend{}, nil, logging.Discard())
	list, err := svc.Platforms(context.Background(), &mobcash.Tokens{}, mobcash.KindDeposit)
	if err != nil {
		t.Fatalf("platforms: %v", err)
	}
	var ids string
	for _, p := range list {
		ids += p.ID
	}
	if ids != "badc" {
		t.Fatalf("unexpected order %q", ids)
	}
}

func TestPlatformNotFound(t *testing.T) {
	svc := NewService(&fakeBackend{}, nil, logging.Discard())
	_, err := svc.Platform(context.Background(), &mobcash.Tokens{}, mobcash.KindDeposit, "e")
	var fe *fiber.Error
	if !errors.As(err, &fe) || fe.Code != fiber.StatusNotFound || fe.Message != "Plateforme non trouvée" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := &fakeBackend{}
	svc := NewService(backend, NewCache(rdb, time.Minute), logging.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Networks(ctx, &mobcash.Tokens{}, mobcash.KindDeposit); err != nil {
			t.Fatalf("networks: %v", err)
		}
		if _, err := svc.Settings(ctx, &mobcash.Tokens{}); err != nil {
			t.Fatalf("settings: %v", err)
		}
	}
	if backend.networkCalls != 1 || backend.settingsCalls != 1 {
		t.Fatalf("expected cached reads, got %d network and %d settings calls", backend.networkCalls, backend.settingsCalls)
	}
	if !mr.Exists("catalog:v1:network:deposit") {
		t.Fatal("expected per-kind cache key")
	}

	mr.FastForward(2 * time.Minute)
	_, _ = svc.Networks(ctx, &mobcash.Tokens{}, mobcash.KindDeposit)
	if backend.networkCalls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", backend.networkCalls)
	}
	if !mr.Exists("catalog:v1:settings") {
		t.Fatal("expected settings cached")
	}
}

func TestCacheReadFailureFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := &fakeBackend{}
	svc := NewService(backend, NewCache(rdb, time.Minute), logging.Discard())
	mr.Close()

	list, err := svc.Platforms(context.Background(), &mobcash.Tokens{}, mobcash.KindWithdrawal)
	if err != nil || len(list) != 4 {
		t.Fatalf("expected backend fallback, got %v %v", list, err)
	}
}
