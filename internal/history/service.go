package history

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zefast/zefast_web/internal/mobcash"
)

const msgMissingReference = "Référence de transaction manquante"

var validStatuses = map[string]bool{
	FilterAll:             true,
	mobcash.StatusPending: true,
	mobcash.StatusAccept:  true,
	mobcash.StatusReject:  true,
	mobcash.StatusTimeout: true,
}

type Backend interface {
	History(ctx context.Context, tokens *mobcash.Tokens, q mobcash.HistoryQuery) (mobcash.Page[mobcash.Transaction], error)
	LastTransaction(ctx context.Context, tokens *mobcash.Tokens) (mobcash.Transaction, error)
	CancelTransaction(ctx context.Context, tokens *mobcash.Tokens, reference string) error
	FinalizeTransaction(ctx context.Context, tokens *mobcash.Tokens, reference string) (mobcash.Transaction, error)
}

type Service struct {
	backend Backend
	logger  *slog.Logger
}

func NewService(backend Backend, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// List returns one page of the user's history.
func (s *Service) List(ctx context.Context, tokens *mobcash.Tokens, f Filter) (Result, error) {
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type != "" && f.Type != FilterAll {
		if _, err := mobcash.ParseKind(f.Type); err != nil {
			return Result{}, fiber.NewError(http.StatusBadRequest, "Type de transaction invalide")
		}
	}
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Status != "" && !validStatuses[f.Status] {
		return Result{}, fiber.NewError(http.StatusBadRequest, "Statut invalide")
	}
	f.Search = strings.TrimSpace(f.Search)

	q := f.Query()
	page, err := s.backend.History(ctx, tokens, q)
	if err != nil {
		return Result{}, mobcash.WithFallback(err, "Erreur lors du chargement de l'historique")
	}
	return Result{
		Items:       views(page.Results),
		Count:       page.Count,
		Page:        q.Page,
		PageSize:    q.PageSize,
		TotalPages:  TotalPages(page.Count, q.PageSize),
		HasNext:     page.Next != "",
		HasPrevious: page.Previous != "",
	}, nil
}

// Recent returns the latest n transactions.
func (s *Service) Recent(ctx context.Context, tokens *mobcash.Tokens, n int) ([]View, error) {
	res, err := s.List(ctx, tokens, Filter{Page: 1, PageSize: n})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *Service) Last(ctx context.Context, tokens *mobcash.Tokens) (View, error) {
	tx, err := s.backend.LastTransaction(ctx, tokens)
	if err != nil {
		return View{}, err
	}
	return NewView(tx), nil
}

func (s *Service) Cancel(ctx context.Context, tokens *mobcash.Tokens, reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return fiber.NewError(http.StatusBadRequest, msgMissingReference)
	}
	if err := s.backend.CancelTransaction(ctx, tokens, reference); err != nil {
		return mobcash.WithFallback(err, "Erreur lors de l'annulation de la transaction")
	}
	s.logger.Info("transaction_cancelled", slog.String("reference", reference))
	return nil
}

func (s *Service) Finalize(ctx context.Context, tokens *mobcash.Tokens, reference string) (View, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return View{}, fiber.NewError(http.StatusBadRequest, msgMissingReference)
	}
	tx, err := s.backend.FinalizeTransaction(ctx, tokens, reference)
	if err != nil {
		return View{}, mobcash.WithFallback(err, "Erreur lors de la finalisation de la transaction")
	}
	s.logger.Info("transaction_finalized", slog.String("reference", reference), slog.String("status", tx.Status))
	return NewView(tx), nil
}
