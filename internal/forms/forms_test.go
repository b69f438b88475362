package forms

import (
	"testing"
)

func TestSignupFormMessages(t *testing.T) {
	err := Validate(SignupForm{
		FirstName:  "A",
		LastName:   "Kone",
		Email:      "not-an-email",
		Phone:      "0700",
		Password:   "secret1",
		RePassword: "secret2",
	})
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"first_name":  "Le prénom doit contenir au moins 2 caractères",
		"email":       "Email invalide",
		"phone":       "Numéro de téléphone invalide",
		"re_password": "Les mots de passe ne correspondent pas",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Fatalf("%s: expected %q, got %q", field, msg, ve.Fields[field])
		}
	}
	if _, ok := ve.Fields["last_name"]; ok {
		t.Fatal("last_name is valid")
	}
}

func TestSignupShortConfirmation(t *testing.T) {
	err := Validate(SignupForm{FirstName: "Awa", LastName: "Kone", Email: "a@b.co", Phone: "22507000000", Password: "abc", RePassword: "abc"})
	ve, _ := AsValidationError(err)
	if ve == nil || ve.Fields["re_password"] != "Confirmation requise" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoginForm(t *testing.T) {
	if err := Validate(LoginForm{EmailOrPhone: "a@b.co", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	ve, _ := AsValidationError(Validate(LoginForm{Password: "123"}))
	if ve == nil || ve.Fields["email_or_phone"] != "Email ou téléphone requis" || ve.Fields["password"] == "" {
		t.Fatalf("unexpected error %+v", ve)
	}
	if got := (LoginForm{EmailOrPhone: " +225 07-00 (00) 00 "}).Identifier(); got != "22507000000" {
		t.Fatalf("unexpected identifier %q", got)
	}
	if got := (LoginForm{EmailOrPhone: " a+b@c.co "}).Identifier(); got != "a+b@c.co" {
		t.Fatalf("emails are not normalized, got %q", got)
	}
}

func TestChangePasswordRequiresEight(t *testing.T) {
	ve, _ := AsValidationError(Validate(ChangePasswordForm{OldPassword: "old", NewPassword: "1234567", ConfirmNewPassword: "1234567"}))
	if ve == nil || ve.Fields["new_password"] != "Le mot de passe doit contenir au moins 8 caractères" {
		t.Fatalf("unexpected error %+v", ve)
	}
	ve, _ = AsValidationError(Validate(ChangePasswordForm{OldPassword: "old", NewPassword: "12345678", ConfirmNewPassword: "87654321"}))
	if ve == nil || ve.Fields["confirm_new_password"] != mismatchMessage {
		t.Fatalf("unexpected error %+v", ve)
	}
}

func TestLocalPhone(t *testing.T) {
	cases := []struct {
		form    PhoneForm
		want    string
		wantErr string
	}{
		{PhoneForm{Country: "225", Phone: "07 00 00 00 00", Network: 1}, "2250700000000", ""},
		{PhoneForm{Country: "226", Phone: "70000000", Network: 2}, "22670000000", ""},
		{PhoneForm{Country: "225", Phone: "07-00-00-00", Network: 1}, "", "Veuillez entrer uniquement des chiffres"},
		{PhoneForm{Country: "225", Phone: "07000000000", Network: 1}, "", "Numéro de téléphone invalide"},
		{PhoneForm{Country: "33", Phone: "0600000000", Network: 1}, "", "Pays non pris en charge"},
		{PhoneForm{Country: "225", Phone: "0700000000"}, "", "Réseau requis"},
	}
	for _, tc := range cases {
		got, err := LocalPhone(tc.form)
		if tc.wantErr == "" {
			if err != nil || got != tc.want {
				t.Fatalf("%+v: expected %q, got %q (%v)", tc.form, tc.want, got, err)
			}
			continue
		}
		ve, ok := AsValidationError(err)
		if !ok || ve.Message() != tc.wantErr {
			t.Fatalf("%+v: expected %q, got %v", tc.form, tc.wantErr, err)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+226 (70) 00-00 00"); got != "22670000000" {
		t.Fatalf("unexpected %q", got)
	}
}
