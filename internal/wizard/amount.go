package wizard

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
)

const (
	msgAmountNotWhole = "Le montant doit être un nombre entier de FCFA"
	msgAmountTooLarge = "Le montant est trop élevé"
)

// amountCeiling keeps user input far inside int64.
var amountCeiling = decimal.NewFromInt(1_000_000_000_000)

// ParseAmount decodes the amount typed by the user. It accepts a JSON number
// or a decimal string and rejects fractions, exponents that do not land on a
// whole FCFA, and anything that is not a number. Missing or null is zero, which
// the amount step then reports as not positive.
func ParseAmount(raw json.RawMessage) (mobcash.Amount, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, forms.FieldError("amount", msgAmountNotWhole)
		}
		if text = strings.TrimSpace(text); text == "" {
			return 0, nil
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() {
		return 0, forms.FieldError("amount", msgAmountNotWhole)
	}
	if d.Abs().GreaterThan(amountCeiling) {
		return 0, forms.FieldError("amount", msgAmountTooLarge)
	}
	return mobcash.Amount(d.IntPart()), nil
}
