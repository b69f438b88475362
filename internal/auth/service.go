package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/zefast/zefast_web/internal/forms"
	"github.com/zefast/zefast_web/internal/mobcash"
	"github.com/zefast/zefast_web/internal/session"
)

// Backend is the subset of the mobcash client used for account flows.
type Backend interface {
	Login(ctx context.Context, identifier, password string) (mobcash.AuthResponse, error)
	Register(ctx context.Context, in mobcash.RegisterRequest) error
	Me(ctx context.Context, tokens *mobcash.Tokens) (mobcash.User, error)
	EditProfile(ctx context.Context, tokens *mobcash.Tokens, in mobcash.ProfileUpdate) (mobcash.User, error)
	ChangePassword(ctx context.Context, tokens *mobcash.Tokens, in mobcash.ChangePasswordRequest) error
	SendOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in mobcash.ResetPasswordRequest) error
	DeleteDevice(ctx context.Context, tokens *mobcash.Tokens, registrationID string) error
}

type Service struct {
	backend     Backend
	cooldown    Cooldown
	otpCooldown time.Duration
	logger      *slog.Logger
}

func NewService(backend Backend, cooldown Cooldown, otpCooldown time.Duration, logger *slog.Logger) *Service {
	if otpCooldown <= 0 {
		otpCooldown = 60 * time.Second
	}
	return &Service{backend: backend, cooldown: cooldown, otpCooldown: otpCooldown, logger: logger}
}

// Login checks the form and authenticates against the backend.
func (s *Service) Login(ctx context.Context, form forms.LoginForm) (mobcash.AuthResponse, error) {
	if err := forms.Validate(form); err != nil {
		return mobcash.AuthResponse{}, err
	}
	resp, err := s.backend.Login(ctx, form.Identifier(), form.Password)
	if err != nil {
		return mobcash.AuthResponse{}, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return mobcash.AuthResponse{}, fmt.Errorf("login: backend returned no tokens")
	}
	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", resp.Data.ID))
	return resp, nil
}

// Register creates the account. It does not open a session.
func (s *Service) Register(ctx context.Context, form forms.SignupForm) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	return s.backend.Register(ctx, mobcash.RegisterRequest{
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		Email:        strings.TrimSpace(form.Email),
		Phone:        forms.NormalizePhone(form.Phone),
		Password:     form.Password,
		RePassword:   form.RePassword,
		ReferralCode: strings.TrimSpace(form.ReferralCode),
	})
}

// RequestOTP sends a reset code, at most once per cooldown window per email.
// It returns the window the caller must wait before asking again.
func (s *Service) RequestOTP(ctx context.Context, form forms.OTPRequestForm) (time.Duration, error) {
	if err := forms.Validate(form); err != nil {
		return 0, err
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))
	key := "otp:" + email

	ok, left, err := s.cooldown.Acquire(ctx, key, s.otpCooldown)
	if err != nil {
		s.logger.WarnContext(ctx, "otp cooldown unavailable", slog.Any("error", err))
	} else if !ok {
		secs := int(math.Ceil(left.Seconds()))
		return left, &mobcash.APIError{
			Status:  http.StatusTooManyRequests,
			Message: fmt.Sprintf("Veuillez patienter %d secondes avant de renvoyer le code", secs),
		}
	}

	if err := s.backend.SendOTP(ctx, email); err != nil {
		if relErr := s.cooldown.Release(ctx, key); relErr != nil {
			s.logger.WarnContext(ctx, "otp cooldown release failed", slog.Any("error", relErr))
		}
		return 0, mobcash.WithFallback(err, "Erreur lors de l'envoi du code OTP", "email")
	}
	return s.otpCooldown, nil
}

func (s *Service) ResetPassword(ctx context.Context, form forms.ResetPasswordForm) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	err := s.backend.ResetPassword(ctx, mobcash.ResetPasswordRequest{
		OTP:                strings.TrimSpace(form.OTP),
		NewPassword:        form.NewPassword,
		ConfirmNewPassword: form.ConfirmNewPassword,
	})
	if err != nil {
		return mobcash.WithFallback(err, "Erreur lors de la réinitialisation du mot de passe", "otp", "new_password")
	}
	return nil
}

// Profile reloads the user from the backend into the session snapshot.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (mobcash.User, error) {
	user, err := s.backend.Me(ctx, &sess.Tokens)
	if err != nil {
		return mobcash.User{}, err
	}
	sess.SetUser(user)
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, form forms.ProfileForm) (mobcash.User, error) {
	if err := forms.Validate(form); err != nil {
		return mobcash.User{}, err
	}
	user, err := s.backend.EditProfile(ctx, &sess.Tokens, mobcash.ProfileUpdate{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Phone:     forms.NormalizePhone(form.Phone),
	})
	if err != nil {
		return mobcash.User{}, mobcash.WithFallback(err, "Erreur lors de la mise à jour du profil")
	}
	if user.ID == "" {
		user, err = s.backend.Me(ctx, &sess.Tokens)
		if err != nil {
			return mobcash.User{}, err
		}
	}
	sess.SetUser(user)
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, sess *session.Session, form forms.ChangePasswordForm) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	err := s.backend.ChangePassword(ctx, &sess.Tokens, mobcash.ChangePasswordRequest{
		OldPassword:        form.OldPassword,
		NewPassword:        form.NewPassword,
		ConfirmNewPassword: form.ConfirmNewPassword,
	})
	if err != nil {
		return mobcash.WithFallback(err, "Erreur lors du changement de mot de passe", "old_password", "new_password")
	}
	return nil
}

// Logout unregisters the browser's push token when one is given. Failures
// there never block the logout.
func (s *Service) Logout(ctx context.Context, sess *session.Session, pushToken string) {
	if sess == nil {
		return
	}
	if pushToken = strings.TrimSpace(pushToken); pushToken != "" {
		if err := s.backend.DeleteDevice(ctx, &sess.Tokens, pushToken); err != nil {
			s.logger.WarnContext(ctx, "push token cleanup failed", slog.Any("error", err))
		}
	}
	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", sess.User.ID))
}

func tokensOf(resp mobcash.AuthResponse) mobcash.Tokens {
	return mobcash.Tokens{Access: resp.Access, Refresh: resp.Refresh}
}
