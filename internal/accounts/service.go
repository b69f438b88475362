package accounts

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
)

// XOFCurrencyID is the platform currency id of the West African CFA franc.
const XOFCurrencyID = 27

const (
	msgUserNotFound  = "Utilisateur non trouvé. Veuillez vérifier l'ID de pari."
	msgWrongCurrency = "Cet utilisateur n'utilise pas la devise XOF. Veuillez vérifier votre compte."
)

// Backend is the subset of the mobcash client used for saved accounts.
type Backend interface {
	Phones(ctx context.Context, tokens *mobcash.Tokens) ([]mobcash.UserPhone, error)
	CreatePhone(ctx context.Context, tokens *mobcash.Tokens, phone string, network int) (mobcash.UserPhone, error)
	UpdatePhone(ctx context.Context, tokens *mobcash.Tokens, id int, phone string, network int) (mobcash.UserPhone, error)
	DeletePhone(ctx context.Context, tokens *mobcash.Tokens, id int) error
	AppIDs(ctx context.Context, tokens *mobcash.Tokens, platformID string) ([]mobcash.UserAppID, error)
	CreateAppID(ctx context.Context, tokens *mobcash.Tokens, userAppID, platformID string) (mobcash.UserAppID, error)
	UpdateAppID(ctx context.Context, tokens *mobcash.Tokens, id int, userAppID, platformID string) (mobcash.UserAppID, error)
	DeleteAppID(ctx context.Context, tokens *mobcash.Tokens, id int) error
	SearchUser(ctx context.Context, tokens *mobcash.Tokens, platformID, betID string) (mobcash.SearchUserResult, error)
}

// Platforms resolves platform ids; the catalog service satisfies it.
type Platforms interface {
	AllPlatforms(ctx context.Context, tokens *mobcash.Tokens) ([]mobcash.Platform, error)
}

type Service struct {
	backend   Backend
	platforms Platforms
	logger    *slog.Logger
}

func NewService(backend Backend, platforms Platforms, logger *slog.Logger) *Service {
	return &Service{backend: backend, platforms: platforms, logger: logger}
}

// Phones lists saved numbers, restricted to one network when network > 0.
func (s *Service) Phones(ctx context.Context, tokens *mobcash.Tokens, network int) ([]mobcash.UserPhone, error) {
	all, err := s.backend.Phones(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if network <= 0 {
		return nonNil(all), nil
	}
	out := make([]mobcash.UserPhone, 0, len(all))
	for _, p := range all {
		if p.Network == network {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) AddPhone(ctx context.Context, tokens *mobcash.Tokens, form forms.PhoneForm) (mobcash.UserPhone, error) {
	phone, err := forms.LocalPhone(form)
	if err != nil {
		return mobcash.UserPhone{}, err
	}
	created, err := s.backend.CreatePhone(ctx, tokens, phone, form.Network)
	if err != nil {
		return mobcash.UserPhone{}, mobcash.WithFallback(err, "Erreur lors de l'opération téléphone", "phone", "network")
	}
	return created, nil
}

func (s *Service) UpdatePhone(ctx context.Context, tokens *mobcash.Tokens, id int, form forms.PhoneForm) (mobcash.UserPhone, error) {
	phone, err := forms.LocalPhone(form)
	if err != nil {
		return mobcash.UserPhone{}, err
	}
	updated, err := s.backend.UpdatePhone(ctx, tokens, id, phone, form.Network)
	if err != nil {
		return mobcash.UserPhone{}, mobcash.WithFallback(err, "Erreur lors de l'opération téléphone", "phone", "network")
	}
	return updated, nil
}

func (s *Service) DeletePhone(ctx context.Context, tokens *mobcash.Tokens, id int) error {
	return mobcash.WithFallback(s.backend.DeletePhone(ctx, tokens, id), "Erreur lors de la suppression du numéro")
}

// AppIDs lists saved bet ids, restricted to one platform when platformID is set.
func (s *Service) AppIDs(ctx context.Context, tokens *mobcash.Tokens, platformID string) ([]mobcash.UserAppID, error) {
	list, err := s.backend.AppIDs(ctx, tokens, strings.TrimSpace(platformID))
	if err != nil {
		return nil, mobcash.WithFallback(err, "Erreur lors du chargement des IDs de pari")
	}
	return nonNil(list), nil
}

// VerifyAppID looks the bet id up on the platform and returns the holder when
// the account exists and uses XOF. The platform must currently be enabled.
func (s *Service) VerifyAppID(ctx context.Context, tokens *mobcash.Tokens, form forms.AppIDForm) (mobcash.SearchUserResult, error) {
	return s.verify(ctx, tokens, form, true)
}

func (s *Service) verify(ctx context.Context, tokens *mobcash.Tokens, form forms.AppIDForm, requireEnabled bool) (mobcash.SearchUserResult, error) {
	form.Trim()
	if err := forms.Validate(form); err != nil {
		return mobcash.SearchUserResult{}, err
	}
	if requireEnabled {
		if err := s.ensurePlatform(ctx, tokens, form.App); err != nil {
			return mobcash.SearchUserResult{}, err
		}
	}

	res, err := s.backend.SearchUser(ctx, tokens, form.App, form.UserAppID)
	if err != nil {
		apiErr, ok := mobcash.AsAPIError(err)
		if !ok {
			return mobcash.SearchUserResult{}, err
		}
		msg := apiErr.MessageFor("userid", "app_id")
		if msg == mobcash.FallbackMessage {
			msg = "Erreur lors de la vérification de l'ID de pari"
		}
		return mobcash.SearchUserResult{}, &mobcash.APIError{Status: apiErr.Status, Message: msg, RetryIn: apiErr.RetryIn, Fields: apiErr.Fields}
	}
	if err := CheckSearchResult(res); err != nil {
		return mobcash.SearchUserResult{}, err
	}
	return res, nil
}

// CheckSearchResult applies the platform account rules to a lookup result.
func CheckSearchResult(res mobcash.SearchUserResult) error {
	if res.UserID == 0 {
		return forms.FieldError("user_app_id", msgUserNotFound)
	}
	if res.CurrencyID != XOFCurrencyID {
		return forms.FieldError("user_app_id", msgWrongCurrency)
	}
	return nil
}

// AddAppID verifies the bet id, then saves it.
func (s *Service) AddAppID(ctx context.Context, tokens *mobcash.Tokens, form forms.AppIDForm) (mobcash.UserAppID, mobcash.SearchUserResult, error) {
	form.Trim()
	holder, err := s.VerifyAppID(ctx, tokens, form)
	if err != nil {
		return mobcash.UserAppID{}, mobcash.SearchUserResult{}, err
	}
	created, err := s.backend.CreateAppID(ctx, tokens, form.UserAppID, form.App)
	if err != nil {
		return mobcash.UserAppID{}, holder, mobcash.WithFallback(err, "Erreur lors de l'ajout de l'ID de pari", "user_app_id", "app")
	}
	s.logger.InfoContext(ctx, "bet id saved", slog.String("platform", form.App))
	return created, holder, nil
}

// UpdateAppID verifies the new bet id, then rewrites the saved one. Ids saved
// for a platform that has since been disabled stay editable; the lookup on the
// backend still applies.
func (s *Service) UpdateAppID(ctx context.Context, tokens *mobcash.Tokens, id int, form forms.AppIDForm) (mobcash.UserAppID, mobcash.SearchUserResult, error) {
	form.Trim()
	holder, err := s.verify(ctx, tokens, form, false)
	if err != nil {
		return mobcash.UserAppID{}, mobcash.SearchUserResult{}, err
	}
	updated, err := s.backend.UpdateAppID(ctx, tokens, id, form.UserAppID, form.App)
	if err != nil {
		return mobcash.UserAppID{}, holder, mobcash.WithFallback(err, "Erreur lors de la modification de l'ID de pari", "user_app_id", "app")
	}
	return updated, holder, nil
}

func (s *Service) DeleteAppID(ctx context.Context, tokens *mobcash.Tokens, id int) error {
	return mobcash.WithFallback(s.backend.DeleteAppID(ctx, tokens, id), "Erreur lors de la suppression de l'ID de pari")
}

func (s *Service) ensurePlatform(ctx context.Context, tokens *mobcash.Tokens, id string) error {
	if s.platforms == nil {
		return nil
	}
	list, err := s.platforms.AllPlatforms(ctx, tokens)
	if err != nil {
		return err
	}
	for _, p := range list {
		if p.ID == id {
			return nil
		}
	}
	return fiber.NewError(http.StatusNotFound, "Plateforme non trouvée")
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
