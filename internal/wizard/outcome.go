package wizard

import (
	"fmt"
	"math"
	"strings"

	"github.com/zefast/zefast_web/internal/journal"
	"github.com/zefast/zefast_web/internal/mobcash"
)

const (
	msgDepositDone    = "Dépôt initié avec succès!"
	msgWithdrawalDone = "Retrait initié avec succès!"

	apiConnected    = "connect"
	operatorMoov    = "moov"
	operatorOrange  = "orange"
	countryBurkina  = "bf"
	moovFeePercent  = 1
	dashboardTarget = "/dashboard"
)

// Outcome tells the front end what to do after a submission: open a hosted
// payment link, dial a USSD code, or simply go back to the dashboard.
type Outcome struct {
	Type        string              `json:"type"`
	Message     string              `json:"message"`
	Link        string              `json:"link,omitempty"`
	USSDCode    string              `json:"ussd_code,omitempty"`
	DialURI     string              `json:"dial_uri,omitempty"`
	Redirect    string              `json:"redirect,omitempty"`
	Transaction mobcash.Transaction `json:"transaction"`
}

// NeedsSettings reports whether resolving a deposit on this network may need
// merchant numbers from the settings document.
func NeedsSettings(kind mobcash.Kind, tx mobcash.Transaction, n mobcash.Network) bool {
	if kind != mobcash.KindDeposit || tx.TransactionLink != "" {
		return false
	}
	return moovConnected(n) || orangeUSSD(n)
}

// Resolve picks the outcome of a created transaction. settings is nil when
// they could not be fetched.
func Resolve(kind mobcash.Kind, tx mobcash.Transaction, n mobcash.Network, amount mobcash.Amount, settings mobcash.Settings) Outcome {
	if kind == mobcash.KindWithdrawal {
		return done(msgWithdrawalDone, tx)
	}
	if tx.TransactionLink != "" {
		return Outcome{Type: journal.OutcomeLink, Message: msgDepositDone, Link: tx.TransactionLink, Transaction: tx}
	}
	if settings == nil {
		return done(msgDepositDone, tx)
	}

	var code string
	switch {
	case moovConnected(n):
		if m := merchant(settings, n, operatorMoov); m != "" {
			code = MoovUSSD(m, amount)
		}
	case orangeUSSD(n):
		if m := merchant(settings, n, operatorOrange); m != "" {
			code = OrangeUSSD(m, amount)
		}
	}
	if code == "" {
		return done(msgDepositDone, tx)
	}
	return Outcome{
		Type:        journal.OutcomeUSSD,
		Message:     msgDepositDone,
		USSDCode:    code,
		DialURI:     DialURI(code),
		Transaction: tx,
	}
}

func done(msg string, tx mobcash.Transaction) Outcome {
	return Outcome{Type: journal.OutcomeDone, Message: msg, Redirect: dashboardTarget, Transaction: tx}
}

func moovConnected(n mobcash.Network) bool {
	return strings.EqualFold(n.Name, operatorMoov) && n.DepositAPI == apiConnected
}

func orangeUSSD(n mobcash.Network) bool {
	return strings.EqualFold(n.Name, operatorOrange) && n.DepositAPI == apiConnected && !n.PaymentByLink
}

// merchant returns the Burkina Faso number for BF networks when configured,
// otherwise the default one.
func merchant(settings mobcash.Settings, n mobcash.Network, operator string) string {
	if strings.EqualFold(n.CountryCode, countryBurkina) {
		if m := settings.String("bf_" + operator + "_marchand_phone"); m != "" {
			return m
		}
	}
	return settings.String(operator + "_marchand_phone")
}

// MoovUSSD builds the Moov merchant payment code. Moov takes a 1% fee, so the
// code carries the net amount.
func MoovUSSD(merchant string, amount mobcash.Amount) string {
	fee := int64(math.Ceil(float64(amount) * moovFeePercent / 100))
	return fmt.Sprintf("*155*2*1*%s*%d#", merchant, int64(amount)-fee)
}

func OrangeUSSD(merchant string, amount mobcash.Amount) string {
	return fmt.Sprintf("*144*2*1*%s*%d#", merchant, int64(amount))
}

// DialURI turns a USSD code into a tel: link.
func DialURI(code string) string {
	return "tel:" + strings.ReplaceAll(code, "#", "%23")
}
