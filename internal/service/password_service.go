package service

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/tablemaker/internal/mail"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/pkg/crypto"
	"github.com/tablemaker/pkg/keygen"
)

var (
	ErrTokenExpired         = errors.New("Token has expired")
	ErrTooManyResetRequests = errors.New("too many password reset requests")
)

// PasswordService handles the reset-token lifecycle
type PasswordService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PasswordResetTokenRepository
	mailer    mail.Mailer
	limiter   mail.Limiter
	tokenTTL  time.Duration
}

// NewPasswordService creates a new PasswordService
func NewPasswordService(
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	mailer mail.Mailer,
	limiter mail.Limiter,
	tokenTTL time.Duration,
) *PasswordService {
	return &PasswordService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		limiter:   limiter,
		tokenTTL:  tokenTTL,
	}
}

// Issue generates a fresh reset token for the user with the given
// email, overwriting any prior token, and mails a reset link. The
// email is fired only after the token row is durably persisted;
// a send failure is logged, never rolled back.
func (s *PasswordService) Issue(ctx context.Context, email, resetPasswordURL string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	allowed, err := s.limiter.Allow(ctx, user.ID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTooManyResetRequests
	}

	token, err := keygen.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.tokenRepo.Upsert(user.ID, token, time.Now()); err != nil {
		return err
	}

	resetURL, err := buildResetURL(resetPasswordURL, token)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.Username, resetURL); err != nil {
		log.Printf("password reset mail to user %d failed: %v", user.ID, err)
	}

	return nil
}

// Reset consumes a token and sets the owning user's password. The
// password update and the token delete are one transaction. A token
// found but older than the TTL is reported expired without being
// consumed.
func (s *PasswordService) Reset(token, newPassword string) error {
	row, err := s.tokenRepo.GetByToken(token)
	if err != nil {
		return err
	}

	if row.ExpiresAfter(time.Now(), s.tokenTTL) {
		return ErrTokenExpired
	}

	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.tokenRepo.ConsumeWithPassword(row, passwordHash)
}

// buildResetURL appends the token as a query parameter to the
// caller-supplied redirect URL.
func buildResetURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
