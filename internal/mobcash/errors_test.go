package mobcash

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseAPIErrorPrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"rate limit wins", `{"error_time_message":"2 minutes","detail":"x"}`, "Veuillez patienter 2 minutes avant de créer une nouvelle transaction"},
		{"rate limit as list", `{"error_time_message":["5 minutes","ignored"],"error":"x"}`, "Veuillez patienter 5 minutes avant de créer une nouvelle transaction"},
		{"empty rate limit list falls through", `{"error_time_message":[],"detail":"b"}`, "b"},
		{"details before detail", `{"details":"a","detail":"b"}`, "a"},
		{"detail", `{"detail":"b","error":"c"}`, "b"},
		{"error", `{"error":"c","message":"d"}`, "c"},
		{"message", `{"message":"d"}`, "d"},
		{"list value", `{"detail":["first","second"]}`, "first"},
		{"fields only", `{"email":["Adresse déjà utilisée"]}`, FallbackMessage},
		{"not json", `<html>bad gateway</html>`, FallbackMessage},
	}
	for _, tc := range cases {
		got := parseAPIError(400, []byte(tc.body))
		if got.Message != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got.Message)
		}
	}
}

func TestAPIErrorFields(t *testing.T) {
	apiErr := parseAPIError(400, []byte(`{"user_app_id":["Cet identifiant existe déjà"],"detail":"Requête invalide"}`))
	if apiErr.Fields["user_app_id"] != "Cet identifiant existe déjà" {
		t.Fatalf("unexpected fields %v", apiErr.Fields)
	}
	if _, ok := apiErr.Fields["detail"]; ok {
		t.Fatal("message keys are not field errors")
	}
	if got := apiErr.MessageFor("userid", "user_app_id"); got != "Cet identifiant existe déjà" {
		t.Fatalf("unexpected field message %q", got)
	}
	if got := apiErr.MessageFor("phone"); got != "Requête invalide" {
		t.Fatalf("expected fallback to message, got %q", got)
	}

	limited := parseAPIError(429, []byte(`{"error_time_message":"30 secondes","user_app_id":"x"}`))
	if !limited.IsRateLimited() || limited.MessageFor("user_app_id") != limited.Message {
		t.Fatalf("rate limit message must win, got %+v", limited)
	}
}

func TestAmountDecoding(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":200,"b":199.6,"c":"500.00","d":null}`), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.A != 200 || v.B != 200 || v.C != 500 || v.D != 0 {
		t.Fatalf("unexpected amounts %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":"abc"}`), &v); err == nil {
		t.Fatal("expected error for non numeric amount")
	}
}

func TestSettingsAccessors(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"moov_marchand_phone":70000000,"orange_marchand_phone":" 0700 ","flag":true}`), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.String("moov_marchand_phone") != "70000000" || s.String("orange_marchand_phone") != "0700" || s.String("missing") != "" {
		t.Fatalf("unexpected string accessors %v", s)
	}
	if !s.Bool("flag") || s.Bool("moov_marchand_phone") {
		t.Fatal("unexpected bool accessors")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Deposit "); err != nil || k != KindDeposit {
		t.Fatalf("unexpected %v %v", k, err)
	}
	if _, err := ParseKind("transfer"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAmountFormatting(t *testing.T) {
	cases := map[Amount]string{0: "0", 500: "500", 1000: "1 000", 10000: "10 000", 1234567: "1 234 567", -2500: "-2 500",
		math.MaxInt64: "9 223 372 036 854 775 807", math.MinInt64: "-9 223 372 036 854 775 808"}
	for in, want := range cases {
		if got := in.Grouped(); got != want {
			t.Fatalf("Grouped(%d) = %q, want %q", in, got, want)
		}
	}
	if Amount(10000).FCFA() != "10 000 FCFA" {
		t.Fatalf("unexpected FCFA rendering %q", Amount(10000).FCFA())
	}
}
