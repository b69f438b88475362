package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
)

// Backend is the subset of the mobcash client used for catalogs.
type Backend interface {
	Networks(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Network, error)
	Platforms(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Platform, error)
	Settings(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Settings, error)
}

// Service serves networks, platforms and settings, filtered per transaction
// kind. The cache is optional.
type Service struct {
	backend Backend
	cache   *Cache
	logger  *slog.Logger
}

func NewService(backend Backend, cache *Cache, logger *slog.Logger) *Service {
	return &Service{backend: backend, cache: cache, logger: logger}
}

// Networks returns the operators active for kind.
func (s *Service) Networks(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Network, error) {
	all, err := s.rawNetworks(ctx, tokens, kind)
	if err != nil {
		return nil, err
	}
	out := make([]mobcash.Network, 0, len(all))
	for _, n := range all {
		if activeFor(n, kind) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Platforms returns enabled platforms ordered by their order field, unset
// last, then by name.
func (s *Service) Platforms(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Platform, error) {
	all, err := s.rawPlatforms(ctx, tokens, kind)
	if err != nil {
		return nil, err
	}
	out := make([]mobcash.Platform, 0, len(all))
	for _, p := range all {
		if p.Enable {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return out, nil
}

// Network finds an active network by id.
func (s *Service) Network(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind, id int) (mobcash.Network, error) {
	list, err := s.Networks(ctx, tokens, kind)
	if err != nil {
		return mobcash.Network{}, err
	}
	for _, n := range list {
		if n.ID == id {
			return n, nil
		}
	}
	return mobcash.Network{}, fiber.NewError(http.StatusNotFound, "Réseau non trouvé")
}

// Platform finds an enabled platform by id.
func (s *Service) Platform(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind, id string) (mobcash.Platform, error) {
	list, err := s.Platforms(ctx, tokens, kind)
	if err != nil {
		return mobcash.Platform{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return mobcash.Platform{}, fiber.NewError(http.StatusNotFound, "Plateforme non trouvée")
}

// AllPlatforms merges both kinds without duplicates.
func (s *Service) AllPlatforms(ctx context.Context, tokens *mobcash.Tokens) ([]mobcash.Platform, error) {
	return mergeByID(ctx, tokens, s.Platforms, func(p mobcash.Platform) string { return p.ID })
}

// Settings returns the backend settings document.
func (s *Service) Settings(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Settings, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSettings(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.logger.WarnContext(ctx, "settings cache read failed", slog.Any("error", err))
		}
	}
	settings, err := s.backend.Settings(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSettings(ctx, settings); err != nil {
			s.logger.WarnContext(ctx, "settings cache write failed", slog.Any("error", err))
		}
	}
	return settings, nil
}

func (s *Service) rawNetworks(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Network, error) {
	if s.cache != nil {
		if list, err := s.cache.GetNetworks(ctx, kind); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.logger.WarnContext(ctx, "network cache read failed", slog.Any("error", err))
		}
	}
	list, err := s.backend.Networks(ctx, tokens, kind)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetNetworks(ctx, kind, list); err != nil {
			s.logger.WarnContext(ctx, "network cache write failed", slog.Any("error", err))
		}
	}
	return list, nil
}

func (s *Service) rawPlatforms(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind) ([]mobcash.Platform, error) {
	if s.cache != nil {
		if list, err := s.cache.GetPlatforms(ctx, kind); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.logger.WarnContext(ctx, "platform cache read failed", slog.Any("error", err))
		}
	}
	list, err := s.backend.Platforms(ctx, tokens, kind)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetPlatforms(ctx, kind, list); err != nil {
			s.logger.WarnContext(ctx, "platform cache write failed", slog.Any("error", err))
		}
	}
	return list, nil
}

func activeFor(n mobcash.Network, kind mobcash.Kind) bool {
	if kind == mobcash.KindWithdrawal {
		return n.ActiveForWith
	}
	return n.ActiveForDeposit
}

func mergeByID[T any](
	ctx context.Context,
	tokens *mobcash.Tokens,
	load func(context.Context, *mobcash.Tokens, mobcash.Kind) ([]T, error),
	id func(T) string,
) ([]T, error) {
	seen := map[string]bool{}
	var out []T
	for _, kind := range []mobcash.Kind{mobcash.KindDeposit, mobcash.KindWithdrawal} {
		list, err := load(ctx, tokens, kind)
		if err != nil {
			return nil, err
		}
		for _, item := range list {
			if k := id(item); !seen[k] {
				seen[k] = true
				out = append(out, item)
			}
		}
	}
	return out, nil
}
