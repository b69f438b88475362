package wizard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/journal"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

// Catalog resolves the platform, network and settings a wizard refers to.
type Catalog interface {
	Platform(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind, id string) (mobcash.Platform, error)
	Network(ctx context.Context, tokens *mobcash.Tokens, kind mobcash.Kind, id int) (mobcash.Network, error)
	Settings(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Settings, error)
}

// Accounts lists the user's saved bet ids and phones.
type Accounts interface {
	AppIDs(ctx context.Context, tokens *mobcash.Tokens, platformID string) ([]mobcash.UserAppID, error)
	Phones(ctx context.Context, tokens *mobcash.Tokens, network int) ([]mobcash.UserPhone, error)
}

// Backend creates transactions.
type Backend interface {
	CreateDeposit(ctx context.Context, tokens *mobcash.Tokens, in mobcash.DepositRequest) (mobcash.Transaction, error)
	CreateWithdrawal(ctx context.Context, tokens *mobcash.Tokens, in mobcash.WithdrawalRequest) (mobcash.Transaction, error)
}

type Service struct {
	store    Store
	catalog  Catalog
	accounts Accounts
	backend  Backend
	journal  journal.Repository
	logger   *slog.Logger
}

func NewService(store Store, catalog Catalog, accounts Accounts, backend Backend, j journal.Repository, logger *slog.Logger) *Service {
	return &Service{store: store, catalog: catalog, accounts: accounts, backend: backend, journal: j, logger: logger}
}

func (s *Service) State(ctx context.Context, sess *session.Session, kind mobcash.Kind) (*State, error) {
	return s.store.Load(ctx, sess.ID, kind)
}

func (s *Service) SelectPlatform(ctx context.Context, sess *session.Session, kind mobcash.Kind, platformID string) (*State, error) {
	return s.update(ctx, sess, kind, 0, func(st *State) error {
		p, err := s.catalog.Platform(ctx, &sess.Tokens, kind, platformID)
		if err != nil {
			return err
		}
		st.SelectPlatform(p)
		return nil
	})
}

func (s *Service) SelectAccount(ctx context.Context, sess *session.Session, kind mobcash.Kind, id int) (*State, error) {
	return s.update(ctx, sess, kind, StepAccount, func(st *State) error {
		list, err := s.accounts.AppIDs(ctx, &sess.Tokens, st.Platform.ID)
		if err != nil {
			return err
		}
		for _, a := range list {
			if a.ID == id {
				st.SelectAccount(a)
				return nil
			}
		}
		return fiber.NewError(http.StatusNotFound, "ID de pari non trouvé")
	})
}

func (s *Service) SelectNetwork(ctx context.Context, sess *session.Session, kind mobcash.Kind, id int) (*State, error) {
	return s.update(ctx, sess, kind, StepNetwork, func(st *State) error {
		n, err := s.catalog.Network(ctx, &sess.Tokens, kind, id)
		if err != nil {
			return err
		}
		st.SelectNetwork(n)
		return nil
	})
}

func (s *Service) SelectPhone(ctx context.Context, sess *session.Session, kind mobcash.Kind, id int) (*State, error) {
	return s.update(ctx, sess, kind, StepPhone, func(st *State) error {
		list, err := s.accounts.Phones(ctx, &sess.Tokens, st.Network.ID)
		if err != nil {
			return err
		}
		for _, p := range list {
			if p.ID == id {
				st.SelectPhone(p)
				return nil
			}
		}
		return fiber.NewError(http.StatusNotFound, "Numéro de téléphone non trouvé")
	})
}

// SetAmount stores the amount step and enters confirmation when it is valid.
// An invalid amount is kept so the form can be redisplayed with its errors.
func (s *Service) SetAmount(ctx context.Context, sess *session.Session, kind mobcash.Kind, amount mobcash.Amount, code string) (*State, error) {
	var invalid error
	st, err := s.update(ctx, sess, kind, StepAmount, func(st *State) error {
		st.SetAmount(amount, code)
		if invalid = st.AmountValidation(); invalid == nil {
			st.Confirming = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, invalid
}

func (s *Service) Next(ctx context.Context, sess *session.Session, kind mobcash.Kind) (*State, error) {
	return s.update(ctx, sess, kind, 0, func(st *State) error {
		err := st.Next()
		if errors.Is(err, ErrStepIncomplete) {
			return fiber.NewError(http.StatusBadRequest, "Veuillez compléter cette étape")
		}
		return err
	})
}

func (s *Service) Previous(ctx context.Context, sess *session.Session, kind mobcash.Kind) (*State, error) {
	return s.update(ctx, sess, kind, 0, func(st *State) error {
		st.Previous()
		return nil
	})
}

func (s *Service) Reset(ctx context.Context, sess *session.Session, kind mobcash.Kind) error {
	return s.store.Delete(ctx, sess.ID, kind)
}

// Confirm submits the transaction described by the wizard, journals it,
// clears the wizard and returns what the user should do next.
func (s *Service) Confirm(ctx context.Context, sess *session.Session, kind mobcash.Kind) (Outcome, error) {
	st, err := s.store.Load(ctx, sess.ID, kind)
	if err != nil {
		return Outcome{}, err
	}
	if !st.Complete() {
		return Outcome{}, fiber.NewError(http.StatusBadRequest, msgMissingData)
	}
	if err := st.AmountValidation(); err != nil {
		return Outcome{}, err
	}

	phone := forms.NormalizePhone(st.Phone.Phone)
	var tx mobcash.Transaction
	if kind == mobcash.KindWithdrawal {
		tx, err = s.backend.CreateWithdrawal(ctx, &sess.Tokens, mobcash.WithdrawalRequest{
			Amount:         st.Amount,
			PhoneNumber:    phone,
			App:            st.Platform.ID,
			UserAppID:      st.Account.UserAppID,
			Network:        st.Network.ID,
			WithdrawalCode: st.WithdrawalCode,
			Source:         mobcash.SourceWeb,
		})
	} else {
		tx, err = s.backend.CreateDeposit(ctx, &sess.Tokens, mobcash.DepositRequest{
			Amount:      st.Amount,
			PhoneNumber: phone,
			App:         st.Platform.ID,
			UserAppID:   st.Account.UserAppID,
			Network:     st.Network.ID,
			Source:      mobcash.SourceWeb,
		})
	}
	if err != nil {
		return Outcome{}, err
	}

	var settings mobcash.Settings
	if NeedsSettings(kind, tx, *st.Network) {
		if settings, err = s.catalog.Settings(ctx, &sess.Tokens); err != nil {
			s.logger.Warn("wizard_settings_unavailable", slog.String("error", err.Error()))
			settings = nil
		}
	}
	out := Resolve(kind, tx, *st.Network, st.Amount, settings)

	entry := journal.Entry{
		UserID:     sess.User.ID,
		Kind:       kind,
		Reference:  tx.Reference,
		Amount:     int64(st.Amount),
		PlatformID: st.Platform.ID,
		NetworkID:  st.Network.ID,
		Phone:      phone,
		Outcome:    out.Type,
		USSDCode:   out.USSDCode,
		Link:       out.Link,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error("journal_record_failed", slog.String("reference", tx.Reference), slog.String("error", err.Error()))
	}
	if err := s.store.Delete(ctx, sess.ID, kind); err != nil {
		s.logger.Warn("wizard_reset_failed", slog.String("error", err.Error()))
	}

	s.logger.Info("transaction_submitted",
		slog.String("kind", string(kind)),
		slog.String("reference", tx.Reference),
		slog.String("outcome", out.Type),
		slog.Int64("amount", int64(st.Amount)),
	)
	return out, nil
}

// update loads the wizard, checks that every step before need is filled,
// applies fn and saves the result.
func (s *Service) update(ctx context.Context, sess *session.Session, kind mobcash.Kind, need int, fn func(*State) error) (*State, error) {
	st, err := s.store.Load(ctx, sess.ID, kind)
	if err != nil {
		return nil, err
	}
	if need > 0 && !reached(st, need) {
		return nil, fiber.NewError(http.StatusBadRequest, "Veuillez compléter les étapes précédentes")
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess.ID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// reached reports whether the selections required before step are present.
func reached(st *State, step int) bool {
	switch step {
	case StepAccount:
		return st.Platform != nil
	case StepNetwork:
		return st.Platform != nil && st.Account != nil
	case StepPhone:
		return st.Platform != nil && st.Account != nil && st.Network != nil
	case StepAmount:
		return st.Complete()
	default:
		return true
	}
}
