package history

import (
	"github.com/zefast/zefast_web/internal/mobcash"
)

// Page sizes used by the history screen and the dashboard preview.
const (
	DefaultPageSize   = 10
	DashboardPageSize = 5
	maxPageSize       = 100
)

// FilterAll disables a filter.
const FilterAll = "all"

var statusLabels = map[string]string{
	mobcash.StatusPending:     "En attente",
	mobcash.StatusInitPayment: "En attente",
	mobcash.StatusAccept:      "Accepté",
	mobcash.StatusError:       "Erreur",
	mobcash.StatusReject:      "Rejeté",
	mobcash.StatusTimeout:     "Expiré",
}

// StatusLabel returns the French label for a status; unknown statuses are
// shown as sent.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func TypeLabel(kind mobcash.Kind) string {
	if kind == mobcash.KindDeposit {
		return "Dépôt"
	}
	return "Retrait"
}

// SignedAmount renders deposits as credits and withdrawals as debits.
func SignedAmount(kind mobcash.Kind, amount mobcash.Amount) string {
	sign := "-"
	if kind == mobcash.KindDeposit {
		sign = "+"
	}
	return sign + amount.FCFA()
}

// View is a transaction with the labels the front end displays.
type View struct {
	mobcash.Transaction
	StatusLabel  string `json:"status_label"`
	TypeLabel    string `json:"type_label"`
	SignedAmount string `json:"signed_amount"`
	Actionable   bool   `json:"actionable"`
}

func NewView(tx mobcash.Transaction) View {
	return View{
		Transaction:  tx,
		StatusLabel:  StatusLabel(tx.Status),
		TypeLabel:    TypeLabel(tx.TypeTrans),
		SignedAmount: SignedAmount(tx.TypeTrans, tx.Amount),
		Actionable:   tx.Status == mobcash.StatusPending,
	}
}

func views(list []mobcash.Transaction) []View {
	out := make([]View, 0, len(list))
	for _, tx := range list {
		out = append(out, NewView(tx))
	}
	return out
}

// Filter selects a page of history. Empty or "all" values are not sent.
type Filter struct {
	Page     int
	PageSize int
	Type     string
	Status   string
	Search   string
}

// Query converts the filter into a backend query, applying defaults.
func (f Filter) Query() mobcash.HistoryQuery {
	q := mobcash.HistoryQuery{Page: f.Page, PageSize: f.PageSize}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		q.PageSize = DefaultPageSize
	}
	if kind, err := mobcash.ParseKind(f.Type); err == nil {
		q.TypeTrans = kind
	}
	if f.Status != "" && f.Status != FilterAll {
		q.Status = f.Status
	}
	q.Search = f.Search
	return q
}

// Result is one page of history.
type Result struct {
	Items       []View `json:"items"`
	Count       int    `json:"count"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
}

// TotalPages is ceil(count / size).
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}
