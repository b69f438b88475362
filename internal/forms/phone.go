package forms

import (
	"regexp"
	"strings"
)

// Country is a dialing prefix offered for phone entry.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Countries = []Country{
	{Code: "225", Name: "Côte d'Ivoire"},
	{Code: "229", Name: "Bénin"},
	{Code: "221", Name: "Sénégal"},
	{Code: "226", Name: "Burkina Faso"},
}

const (
	minLocalDigits = 8
	maxLocalDigits = 10
)

var (
	phoneNoise = regexp.MustCompile(`[\s+\-()]`)
	whitespace = regexp.MustCompile(`\s+`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// NormalizePhone removes spaces, plus signs, dashes and parentheses.
func NormalizePhone(phone string) string {
	return phoneNoise.ReplaceAllString(phone, "")
}

// IsCountry reports whether code is one of the supported prefixes.
func IsCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}

// LocalPhone validates a phone form and returns the stored number, prefix
// followed by the subscriber digits.
func LocalPhone(f PhoneForm) (string, error) {
	f.Phone = whitespace.ReplaceAllString(strings.TrimSpace(f.Phone), "")
	f.Country = strings.TrimSpace(f.Country)
	if err := Validate(f); err != nil {
		return "", err
	}
	if !IsCountry(f.Country) {
		return "", FieldError("country", "Pays non pris en charge")
	}
	if !digitsOnly.MatchString(f.Phone) {
		return "", FieldError("phone", "Veuillez entrer uniquement des chiffres")
	}
	if len(f.Phone) < minLocalDigits || len(f.Phone) > maxLocalDigits {
		return "", FieldError("phone", "Numéro de téléphone invalide")
	}
	return f.Country + f.Phone, nil
}
