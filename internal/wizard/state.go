package wizard

import (
	"errors"
	"time"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
)

// Steps of the wizard, in order.
const (
	StepPlatform = 1
	StepAccount  = 2
	StepNetwork  = 3
	StepPhone    = 4
	StepAmount   = 5
)

const minWithdrawalCode = 4

const (
	msgNoPlatform        = "Plateforme non sélectionnée"
	msgAmountNotPositive = "Le montant doit être supérieur à 0"
	msgShortCode         = "Le code de retrait doit contenir au moins 4 caractères"
	msgMissingData       = "Données manquantes pour la transaction"
)

// ErrStepIncomplete is returned when moving forward from a step that has no valid value.
var ErrStepIncomplete = errors.New("wizard: step incomplete")

// State is one user's progress through the deposit or withdrawal wizard.
type State struct {
	Kind           mobcash.Kind       `json:"kind"`
	Step           int                `json:"step"`
	Platform       *mobcash.Platform  `json:"platform"`
	Account        *mobcash.UserAppID `json:"account"`
	Network        *mobcash.Network   `json:"network"`
	Phone          *mobcash.UserPhone `json:"phone"`
	Amount         mobcash.Amount     `json:"amount"`
	WithdrawalCode string             `json:"withdriwal_code,omitempty"`
	Confirming     bool               `json:"confirming"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NetworkMessage is the operator notice for the chosen network, shown on the
// amount step. Empty until a network is selected.
func (s *State) NetworkMessage() string {
	if s.Network == nil {
		return ""
	}
	return s.Network.Message(s.Kind)
}

// New returns an empty wizard positioned on the first step.
func New(kind mobcash.Kind) *State {
	return &State{Kind: kind, Step: StepPlatform}
}

// SelectPlatform stores the platform. A different platform drops the account
// chosen for the previous one.
func (s *State) SelectPlatform(p mobcash.Platform) {
	if s.Platform == nil || s.Platform.ID != p.ID {
		s.Account = nil
	}
	s.Platform = &p
	s.moveTo(StepAccount)
}

func (s *State) SelectAccount(a mobcash.UserAppID) {
	s.Account = &a
	s.moveTo(StepNetwork)
}

// SelectNetwork stores the network. A different network drops the phone.
func (s *State) SelectNetwork(n mobcash.Network) {
	if s.Network == nil || s.Network.ID != n.ID {
		s.Phone = nil
	}
	s.Network = &n
	s.moveTo(StepPhone)
}

func (s *State) SelectPhone(p mobcash.UserPhone) {
	s.Phone = &p
	s.moveTo(StepAmount)
}

// SetAmount stores the amount and, for withdrawals, the withdrawal code.
func (s *State) SetAmount(amount mobcash.Amount, code string) {
	s.Amount = amount
	if s.Kind == mobcash.KindWithdrawal {
		s.WithdrawalCode = code
	}
	s.Confirming = false
	s.Step = StepAmount
}

func (s *State) moveTo(step int) {
	s.Step = step
	s.Confirming = false
}

// AmountError validates the amount against the platform bounds for the
// wizard's kind. A zero maximum is treated as unbounded.
func (s *State) AmountError() string {
	if s.Platform == nil {
		return msgNoPlatform
	}
	if s.Amount <= 0 {
		return msgAmountNotPositive
	}
	lo, hi := s.Platform.Bounds(s.Kind)
	if s.Amount < lo {
		return "Le montant minimum est " + lo.FCFA()
	}
	if hi > 0 && s.Amount > hi {
		return "Le montant maximum est " + hi.FCFA()
	}
	return ""
}

// CodeError validates the withdrawal code; deposits have none.
func (s *State) CodeError() string {
	if s.Kind == mobcash.KindWithdrawal && len([]rune(s.WithdrawalCode)) < minWithdrawalCode {
		return msgShortCode
	}
	return ""
}

// AmountValidation reports the amount step as a field error, or nil.
func (s *State) AmountValidation() error {
	fields := map[string]string{}
	if msg := s.AmountError(); msg != "" {
		fields["amount"] = msg
	}
	if msg := s.CodeError(); msg != "" {
		fields["withdriwal_code"] = msg
	}
	if len(fields) == 0 {
		return nil
	}
	return &forms.ValidationError{Fields: fields}
}

// StepValid reports whether the current step has a usable value.
func (s *State) StepValid() bool {
	switch s.Step {
	case StepPlatform:
		return s.Platform != nil
	case StepAccount:
		return s.Account != nil
	case StepNetwork:
		return s.Network != nil
	case StepPhone:
		return s.Phone != nil
	case StepAmount:
		return s.AmountError() == "" && s.CodeError() == ""
	default:
		return false
	}
}

// Next advances one step, or enters confirmation from the last step.
func (s *State) Next() error {
	if !s.StepValid() {
		if s.Step == StepAmount {
			return s.AmountValidation()
		}
		return ErrStepIncomplete
	}
	if s.Step < StepAmount {
		s.Step++
		return nil
	}
	s.Confirming = true
	return nil
}

// Previous leaves confirmation, or steps back once. It never goes below the
// first step.
func (s *State) Previous() {
	if s.Confirming {
		s.Confirming = false
		return
	}
	if s.Step > StepPlatform {
		s.Step--
	}
}

// Complete reports whether every selection needed to submit is present.
func (s *State) Complete() bool {
	return s.Platform != nil && s.Account != nil && s.Network != nil && s.Phone != nil
}
