package forms

import "strings"

const mismatchMessage = "Les mots de passe ne correspondent pas"

type LoginForm struct {
	EmailOrPhone string `json:"email_or_phone" validate:"required" msg:"Email ou téléphone requis"`
	Password     string `json:"password" validate:"required,min=6" msg:"Le mot de passe doit contenir au moins 6 caractères"`
}

// Identifier returns the login identifier as the backend expects it: emails
// untouched, phone numbers normalized.
func (f LoginForm) Identifier() string {
	id := strings.TrimSpace(f.EmailOrPhone)
	if strings.Contains(id, "@") {
		return id
	}
	return NormalizePhone(id)
}

type SignupForm struct {
	FirstName    string `json:"first_name" validate:"min=2" msg:"Le prénom doit contenir au moins 2 caractères"`
	LastName     string `json:"last_name" validate:"min=2" msg:"Le nom doit contenir au moins 2 caractères"`
	Email        string `json:"email" validate:"required,email" msg:"Email invalide"`
	Phone        string `json:"phone" validate:"min=8" msg:"Numéro de téléphone invalide"`
	Password     string `json:"password" validate:"min=6" msg:"Le mot de passe doit contenir au moins 6 caractères"`
	RePassword   string `json:"re_password" validate:"min=6,eqfield=Password" msg:"min=Confirmation requise|eqfield=Les mots de passe ne correspondent pas"`
	ReferralCode string `json:"referral_code"`
}

type OTPRequestForm struct {
	Email string `json:"email" validate:"required,email" msg:"Email invalide"`
}

type ResetPasswordForm struct {
	OTP                string `json:"otp" validate:"min=4" msg:"Le code OTP doit contenir au moins 4 caractères"`
	NewPassword        string `json:"new_password" validate:"min=6" msg:"Le mot de passe doit contenir au moins 6 caractères"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"min=6,eqfield=NewPassword" msg:"min=La confirmation doit contenir au moins 6 caractères|eqfield=Les mots de passe ne correspondent pas"`
}

type ChangePasswordForm struct {
	OldPassword        string `json:"old_password" validate:"required" msg:"Mot de passe actuel requis"`
	NewPassword        string `json:"new_password" validate:"min=8" msg:"Le mot de passe doit contenir au moins 8 caractères"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"eqfield=NewPassword" msg:"Les mots de passe ne correspondent pas"`
}

type ProfileForm struct {
	FirstName string `json:"first_name" validate:"min=2" msg:"Le prénom doit contenir au moins 2 caractères"`
	LastName  string `json:"last_name" validate:"min=2" msg:"Le nom doit contenir au moins 2 caractères"`
	Email     string `json:"email" validate:"required,email" msg:"Email invalide"`
	Phone     string `json:"phone" validate:"min=8" msg:"Numéro de téléphone invalide"`
}

// PhoneForm is a local number entry: country prefix plus the subscriber digits.
type PhoneForm struct {
	Country string `json:"country" validate:"required" msg:"Pays requis"`
	Phone   string `json:"phone" validate:"min=8" msg:"Numéro de téléphone invalide"`
	Network int    `json:"network" validate:"min=1" msg:"Réseau requis"`
}

type AppIDForm struct {
	UserAppID string `json:"user_app_id" validate:"required" msg:"ID de pari requis"`
	App       string `json:"app" validate:"required" msg:"Plateforme requise"`
}

// Trim strips surrounding whitespace from the free-text fields.
func (f *AppIDForm) Trim() {
	f.UserAppID = strings.TrimSpace(f.UserAppID)
	f.App = strings.TrimSpace(f.App)
}
