package history

import (
	"context"
	"testing"

	"github.com/zefast/zefast_web/internal/logging"
	"github.com/zefast/zefast_web/internal/mobcash"
)

type fakeBackend struct {
	query     mobcash.HistoryQuery
	page      mobcash.Page[mobcash.Transaction]
	cancelled []string
	err       error
}

func (f *fakeBackend) History(_ context.Context, _ *mobcash.Tokens, q mobcash.HistoryQuery) (mobcash.Page[mobcash.Transaction], error) {
	f.query = q
	return f.page, f.err
}

func (f *fakeBackend) LastTransaction(context.Context, *mobcash.Tokens) (mobcash.Transaction, error) {
	return mobcash.Transaction{Reference: "R1", Status: "accept", TypeTrans: mobcash.KindDeposit, Amount: 500}, nil
}

func (f *fakeBackend) CancelTransaction(_ context.Context, _ *mobcash.Tokens, ref string) error {
	f.cancelled = append(f.cancelled, ref)
	return f.err
}

func (f *fakeBackend) FinalizeTransaction(_ context.Context, _ *mobcash.Tokens, ref string) (mobcash.Transaction, error) {
	return mobcash.Transaction{Reference: ref, Status: "accept", TypeTrans: mobcash.KindWithdrawal, Amount: 2500}, f.err
}

func TestLabels(t *testing.T) {
	cases := map[string]string{
		"pending": "En attente", "init_payment": "En attente", "accept": "Accepté",
		"error": "Erreur", "reject": "Rejeté", "timeout": "Expiré", "weird": "weird",
	}
	for status, want := range cases {
		if got := StatusLabel(status); got != want {
			t.Fatalf("StatusLabel(%q) = %q, want %q", status, got, want)
		}
	}
	if SignedAmount(mobcash.KindDeposit, 10000) != "+10 000 FCFA" || SignedAmount(mobcash.KindWithdrawal, 2500) != "-2 500 FCFA" {
		t.Fatal("unexpected signed amounts")
	}
	if TypeLabel(mobcash.KindDeposit) != "Dépôt" || TypeLabel(mobcash.KindWithdrawal) != "Retrait" {
		t.Fatal("unexpected type labels")
	}
}

func TestListOmitsAllFilters(t *testing.T) {
	backend := &fakeBackend{page: mobcash.Page[mobcash.Transaction]{
		Count:   21,
		Next:    "https://api/next",
		Results: []mobcash.Transaction{{Reference: "A", Status: "pending", TypeTrans: mobcash.KindDeposit, Amount: 1000}},
	}}
	svc := NewService(backend, logging.Discard())

	res, err := svc.List(context.Background(), &mobcash.Tokens{}, Filter{Page: 0, PageSize: 0, Type: "all", Status: "all", Search: "  A "})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	q := backend.query
	if q.Page != 1 || q.PageSize != DefaultPageSize || q.TypeTrans != "" || q.Status != "" || q.Search != "A" {
		t.Fatalf("unexpected query %+v", q)
	}
	if res.TotalPages != 3 || !res.HasNext || res.HasPrevious {
		t.Fatalf("unexpected pagination %+v", res)
	}
	if !res.Items[0].Actionable || res.Items[0].SignedAmount != "+1 000 FCFA" {
		t.Fatalf("unexpected view %+v", res.Items[0])
	}

	if _, err := svc.List(context.Background(), &mobcash.Tokens{}, Filter{Type: "withdrawal", Status: "reject"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if backend.query.TypeTrans != mobcash.KindWithdrawal || backend.query.Status != "reject" {
		t.Fatalf("unexpected query %+v", backend.query)
	}
	if _, err := svc.List(context.Background(), &mobcash.Tokens{}, Filter{Type: " Deposit", Status: "Pending"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if backend.query.TypeTrans != mobcash.KindDeposit || backend.query.Status != "pending" {
		t.Fatalf("filters must be sent normalized, got %+v", backend.query)
	}
	if q := (Filter{Type: "WITHDRAWAL"}).Query(); q.TypeTrans != mobcash.KindWithdrawal {
		t.Fatalf("unexpected query type %q", q.TypeTrans)
	}
	if _, err := svc.List(context.Background(), &mobcash.Tokens{}, Filter{Type: "transfer"}); err == nil {
		t.Fatal("expected invalid type error")
	}
	if _, err := svc.List(context.Background(), &mobcash.Tokens{}, Filter{Status: "lost"}); err == nil {
		t.Fatal("expected invalid status error")
	}
}

func TestRecentUsesPageSize(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, logging.Discard())
	items, err := svc.Recent(context.Background(), &mobcash.Tokens{}, DashboardPageSize)
	if err != nil || items == nil {
		t.Fatalf("unexpected %v %v", items, err)
	}
	if backend.query.PageSize != DashboardPageSize {
		t.Fatalf("unexpected page size %d", backend.query.PageSize)
	}
}

func TestCancelAndFinalize(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, logging.Discard())
	ctx := context.Background()

	if err := svc.Cancel(ctx, &mobcash.Tokens{}, " "); err == nil || err.Error() != msgMissingReference {
		t.Fatalf("expected missing reference, got %v", err)
	}
	if err := svc.Cancel(ctx, &mobcash.Tokens{}, "REF-1"); err != nil || backend.cancelled[0] != "REF-1" {
		t.Fatalf("unexpected cancel %v %v", err, backend.cancelled)
	}

	backend.err = &mobcash.APIError{Status: 400, Message: mobcash.FallbackMessage}
	err := svc.Cancel(ctx, &mobcash.Tokens{}, "REF-2")
	if apiErr, ok := mobcash.AsAPIError(err); !ok || apiErr.Message != "Erreur lors de l'annulation de la transaction" {
		t.Fatalf("unexpected cancel error %v", err)
	}

	backend.err = nil
	v, err := svc.Finalize(ctx, &mobcash.Tokens{}, "REF-3")
	if err != nil || v.Reference != "REF-3" || v.StatusLabel != "Accepté" || v.SignedAmount != "-2 500 FCFA" {
		t.Fatalf("unexpected finalize %v %+v", err, v)
	}
}

func TestTotalPages(t *testing.T) {
	if TotalPages(0, 10) != 0 || TotalPages(10, 10) != 1 || TotalPages(11, 10) != 2 || TotalPages(5, 0) != 0 {
		t.Fatal("unexpected total pages")
	}
}
