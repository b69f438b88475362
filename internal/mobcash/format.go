package mobcash

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// grouping prints integers with a comma every three digits; Grouped swaps the
// comma for the plain space used on FCFA amounts.
var grouping = message.NewPrinter(language.English)

// Grouped renders the amount with a space every three digits: 10000 → "10 000".
func (a Amount) Grouped() string {
	return strings.ReplaceAll(grouping.Sprintf("%d", int64(a)), ",", " ")
}

// FCFA renders the amount as shown to users, e.g. "10 000 FCFA".
func (a Amount) FCFA() string {
	return a.Grouped() + " FCFA"
}
