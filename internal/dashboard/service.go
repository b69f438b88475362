package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zefast/zefast_web/internal/history"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

type Backend interface {
	Me(ctx context.Context, tokens *mobcash.Tokens) (mobcash.User, error)
	Advertisements(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Page[mobcash.Advertisement], error)
	Bonuses(ctx context.Context, tokens *mobcash.Tokens, page int) (mobcash.Page[mobcash.Bonus], error)
	Coupons(ctx context.Context, tokens *mobcash.Tokens, page int) (mobcash.Page[mobcash.Coupon], error)
}

type SettingsSource interface {
	Settings(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Settings, error)
}

type RecentSource interface {
	Recent(ctx context.Context, tokens *mobcash.Tokens, n int) ([]history.View, error)
}

// Summary is everything the dashboard home shows.
type Summary struct {
	User           mobcash.User            `json:"user"`
	Greeting       string                  `json:"greeting"`
	Initials       string                  `json:"initials"`
	Balance        string                  `json:"balance"`
	BonusAvailable string                  `json:"bonus_available"`
	Recent         []history.View          `json:"recent"`
	RecentError    string                  `json:"recent_error,omitempty"`
	Ads            []mobcash.Advertisement `json:"ads"`
	ReferralBonus  bool                    `json:"referral_bonus"`
}

// BonusPage is a page of bonuses with formatted amounts.
type BonusPage struct {
	Items       []BonusView `json:"items"`
	Count       int         `json:"count"`
	Page        int         `json:"page"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
}

type BonusView struct {
	mobcash.Bonus
	FormattedAmount string `json:"formatted_amount"`
}

type CouponPage struct {
	Items       []mobcash.Coupon `json:"items"`
	Count       int              `json:"count"`
	Page        int              `json:"page"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
}

type Service struct {
	backend  Backend
	settings SettingsSource
	recent   RecentSource
	logger   *slog.Logger
}

func NewService(backend Backend, settings SettingsSource, recent RecentSource, logger *slog.Logger) *Service {
	return &Service{backend: backend, settings: settings, recent: recent, logger: logger}
}

// Summary refreshes the user snapshot and gathers the home screen. Only the
// profile is required; ads, settings and recent transactions degrade to empty.
func (s *Service) Summary(ctx context.Context, sess *session.Session) (Summary, error) {
	user, err := s.backend.Me(ctx, &sess.Tokens)
	if err != nil {
		return Summary{}, err
	}
	sess.SetUser(user)

	sum := Summary{
		User:           user,
		Greeting:       sess.DisplayName(),
		Initials:       Initials(user),
		Balance:        user.Balance.FCFA(),
		BonusAvailable: user.BonusAvailable.FCFA(),
		Recent:         []history.View{},
		Ads:            []mobcash.Advertisement{},
	}

	if recent, err := s.recent.Recent(ctx, &sess.Tokens, history.DashboardPageSize); err != nil {
		if errors.Is(err, mobcash.ErrSessionExpired) {
			return Summary{}, err
		}
		s.logger.Warn("dashboard_recent_failed", slog.String("error", err.Error()))
		sum.RecentError = "Erreur lors du chargement des transactions récentes"
	} else {
		sum.Recent = recent
	}

	if ads, err := s.backend.Advertisements(ctx, &sess.Tokens); err != nil {
		s.logger.Warn("dashboard_ads_failed", slog.String("error", err.Error()))
	} else {
		for _, ad := range ads.Results {
			if ad.Enable {
				sum.Ads = append(sum.Ads, ad)
			}
		}
	}

	if settings, err := s.settings.Settings(ctx, &sess.Tokens); err != nil {
		s.logger.Warn("dashboard_settings_failed", slog.String("error", err.Error()))
	} else {
		sum.ReferralBonus = settings.Bool("referral_bonus")
	}
	return sum, nil
}

func (s *Service) Bonuses(ctx context.Context, tokens *mobcash.Tokens, page int) (BonusPage, error) {
	page = max(page, 1)
	res, err := s.backend.Bonuses(ctx, tokens, page)
	if err != nil {
		return BonusPage{}, err
	}
	out := BonusPage{
		Items:       make([]BonusView, 0, len(res.Results)),
		Count:       res.Count,
		Page:        page,
		HasNext:     res.Next != "",
		HasPrevious: res.Previous != "",
	}
	for _, b := range res.Results {
		out.Items = append(out.Items, BonusView{Bonus: b, FormattedAmount: b.Amount.FCFA()})
	}
	return out, nil
}

func (s *Service) Coupons(ctx context.Context, tokens *mobcash.Tokens, page int) (CouponPage, error) {
	page = max(page, 1)
	res, err := s.backend.Coupons(ctx, tokens, page)
	if err != nil {
		return CouponPage{}, err
	}
	items := res.Results
	if items == nil {
		items = []mobcash.Coupon{}
	}
	return CouponPage{
		Items:       items,
		Count:       res.Count,
		Page:        page,
		HasNext:     res.Next != "",
		HasPrevious: res.Previous != "",
	}, nil
}

// Initials is the upper-cased first letter of the first and last names.
func Initials(u mobcash.User) string {
	var b strings.Builder
	for _, name := range []string{u.FirstName, u.LastName} {
		name = strings.TrimSpace(name)
		if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
