package mobcash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the direction of a transaction as the backend names it.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// ParseKind validates a kind coming from a URL or query string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdrawal:
		return KindWithdrawal, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction statuses reported by the backend.
const (
	StatusPending     = "pending"
	StatusAccept      = "accept"
	StatusInitPayment = "init_payment"
	StatusError       = "error"
	StatusReject      = "reject"
	StatusTimeout     = "timeout"
)

// SourceWeb tags transactions created through this service.
const SourceWeb = "web"

// Amount is a whole number of FCFA. The backend sends money as JSON numbers,
// sometimes with a fractional part, and occasionally as decimal strings.
type Amount int64

// UnmarshalJSON accepts numbers, decimal strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", raw, err)
	}
	*a = Amount(math.Round(f))
	return nil
}

// Tokens is the bearer pair issued by the backend. A refreshed access token is
// written back into the same value so callers can persist it.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Balance        Amount    `json:"balance"`
	BonusAvailable Amount    `json:"bonus_available"`
	ReferralCode   string    `json:"referral_code"`
	ReferrerCode   string    `json:"referrer_code"`
	IsActive       bool      `json:"is_active"`
	IsBlock        bool      `json:"is_block"`
	DateJoined     time.Time `json:"date_joined"`
	LastLogin      time.Time `json:"last_login"`
}

type AuthResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
	Exp     string `json:"exp"`
	Data    User   `json:"data"`
}

// RegisterRequest is the registration payload; ReferralCode is optional.
type RegisterRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	RePassword   string `json:"re_password"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type ResetPasswordRequest struct {
	OTP                string `json:"otp"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// Network is a mobile-money operator in a given country.
type Network struct {
	ID                int       `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Name              string    `json:"name"`
	PublicName        string    `json:"public_name"`
	Placeholder       string    `json:"placeholder"`
	CountryCode       string    `json:"country_code"`
	Indication        string    `json:"indication"`
	Image             string    `json:"image"`
	DepositAPI        string    `json:"deposit_api"`
	WithdrawalAPI     string    `json:"withdrawal_api"`
	PaymentByLink     bool      `json:"payment_by_link"`
	OTPRequired       bool      `json:"otp_required"`
	Enable            bool      `json:"enable"`
	DepositMessage    string    `json:"deposit_message"`
	WithdrawalMessage string    `json:"withdrawal_message"`
	ActiveForDeposit  bool      `json:"active_for_deposit"`
	ActiveForWith     bool      `json:"active_for_with"`
}

// Message returns the operator notice shown for the given kind.
func (n Network) Message(kind Kind) string {
	if kind == KindWithdrawal {
		return strings.TrimSpace(n.WithdrawalMessage)
	}
	return strings.TrimSpace(n.DepositMessage)
}

// Platform is a third-party betting platform.
type Platform struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Image              string `json:"image"`
	Enable             bool   `json:"enable"`
	DepositTutoLink    string `json:"deposit_tuto_link"`
	WithdrawalTutoLink string `json:"withdrawal_tuto_link"`
	WhyWithdrawalFail  string `json:"why_withdrawal_fail"`
	Order              *int   `json:"order"`
	City               string `json:"city"`
	Street             string `json:"street"`
	MinimumDeposit     Amount `json:"minimun_deposit"`
	MaxDeposit         Amount `json:"max_deposit"`
	MinimumWithdrawal  Amount `json:"minimun_with"`
	MaxWithdrawal      Amount `json:"max_win"`
}

// Bounds returns the inclusive amount range accepted for the given kind.
func (p Platform) Bounds(kind Kind) (Amount, Amount) {
	if kind == KindWithdrawal {
		return p.MinimumWithdrawal, p.MaxWithdrawal
	}
	return p.MinimumDeposit, p.MaxDeposit
}

type UserPhone struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Phone     string    `json:"phone"`
	Network   int       `json:"network"`
}

// UserAppID is the user's account identifier on a betting platform.
type UserAppID struct {
	ID         int       `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserAppID  string    `json:"user_app_id"`
	AppName    string    `json:"app_name"`
	AppDetails Platform  `json:"app_details"`
}

// SearchUserResult is the platform-side lookup of a bet id.
type SearchUserResult struct {
	UserID     int    `json:"UserId"`
	Name       string `json:"Name"`
	CurrencyID int    `json:"CurrencyId"`
}

type Transaction struct {
	ID                  int        `json:"id"`
	Reference           string     `json:"reference"`
	TypeTrans           Kind       `json:"type_trans"`
	Status              string     `json:"status"`
	Amount              Amount     `json:"amount"`
	DepositRewardAmount Amount     `json:"deposit_reward_amount"`
	NetPayableAmount    Amount     `json:"net_payable_amout"`
	PhoneNumber         string     `json:"phone_number"`
	UserAppID           string     `json:"user_app_id"`
	WithdrawalCode      string     `json:"withdriwal_code"`
	TransactionLink     string     `json:"transaction_link"`
	ErrorMessage        string     `json:"error_message"`
	PublicID            string     `json:"public_id"`
	Source              string     `json:"source"`
	Network             int        `json:"network"`
	App                 string     `json:"app"`
	AppDetails          Platform   `json:"app_details"`
	CreatedAt           time.Time  `json:"created_at"`
	ValidatedAt         *time.Time `json:"validated_at"`
}

type DepositRequest struct {
	Amount      Amount `json:"amount"`
	PhoneNumber string `json:"phone_number"`
	App         string `json:"app"`
	UserAppID   string `json:"user_app_id"`
	Network     int    `json:"network"`
	Source      string `json:"source"`
}

type WithdrawalRequest struct {
	Amount         Amount `json:"amount"`
	PhoneNumber    string `json:"phone_number"`
	App            string `json:"app"`
	UserAppID      string `json:"user_app_id"`
	Network        int    `json:"network"`
	WithdrawalCode string `json:"withdriwal_code"`
	Source         string `json:"source"`
}

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

type Notification struct {
	ID        int       `json:"id"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
}

type Bonus struct {
	ID          int       `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Amount      Amount    `json:"amount"`
	ReasonBonus string    `json:"reason_bonus"`
	Transaction *int      `json:"transaction"`
}

type Advertisement struct {
	ID     int    `json:"id"`
	Image  string `json:"image"`
	Enable bool   `json:"enable"`
}

type Coupon struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Code      string    `json:"code"`
	BetApp    string    `json:"bet_app"`
}

// Settings is the backend's open-ended settings document.
type Settings map[string]any

// Bool reads a boolean flag; anything but JSON true is false.
func (s Settings) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// String reads a value as text. Numbers are rendered without a fractional part
// when they are whole, which is how merchant phone numbers come back.
func (s Settings) String(key string) string {
	switch v := s[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// DeviceRegistration registers a push token for the current user.
type DeviceRegistration struct {
	RegistrationID string `json:"registration_id"`
	Type           string `json:"type"`
	UserID         any    `json:"user_id"`
}

// HistoryQuery filters the transaction history. Zero values are omitted.
type HistoryQuery struct {
	Page      int
	PageSize  int
	User      string
	TypeTrans Kind
	Status    string
	Source    string
	Network   int
	Search    string
}
