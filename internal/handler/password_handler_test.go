package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablemaker/internal/handler"
	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/internal/service"
)

type stubUserRepo struct {
	usersByEmail map[string]*models.User
	passwords    map[uint]string
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (s *stubUserRepo) Create(user *models.User) error { return nil }

func (s *stubUserRepo) GetByID(id uint) (*models.User, error) {
	for _, user := range s.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) ExistsByEmail(email string) (bool, error) {
	_, ok := s.usersByEmail[email]
	return ok, nil
}

func (s *stubUserRepo) ExistsByUsername(username string) (bool, error) { return false, nil }

func (s *stubUserRepo) Update(user *models.User) error { return nil }

type stubTokenRepo struct {
	rows map[string]*models.PasswordResetToken
	// password hash written by the last successful consume
	consumedHash string
}

var _ repository.PasswordResetTokenRepository = (*stubTokenRepo)(nil)

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{rows: make(map[string]*models.PasswordResetToken)}
}

func (s *stubTokenRepo) Upsert(userID uint, token string, issuedAt time.Time) error {
	for existing, row := range s.rows {
		if row.UserID == userID {
			delete(s.rows, existing)
		}
	}
	s.rows[token] = &models.PasswordResetToken{UserID: userID, Token: token, CreatedAt: issuedAt}
	return nil
}

func (s *stubTokenRepo) GetByToken(token string) (*models.PasswordResetToken, error) {
	row, ok := s.rows[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	return row, nil
}

func (s *stubTokenRepo) ConsumeWithPassword(token *models.PasswordResetToken, passwordHash string) error {
	s.consumedHash = passwordHash
	delete(s.rows, token.Token)
	return nil
}

func (s *stubTokenRepo) DeleteExpired(before time.Time) (int64, error) { return 0, nil }

type stubMailer struct {
	sentTo   []string
	lastURL  string
	lastName string
}

func (m *stubMailer) IsEnabled() bool { return true }

func (m *stubMailer) SendPasswordReset(toEmail, username, resetURL string) error {
	m.sentTo = append(m.sentTo, toEmail)
	m.lastName = username
	m.lastURL = resetURL
	return nil
}

type stubLimiter struct {
	allowed bool
}

func (l *stubLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	return l.allowed, nil
}

type passwordFixture struct {
	router    *gin.Engine
	userRepo  *stubUserRepo
	tokenRepo *stubTokenRepo
	mailer    *stubMailer
	limiter   *stubLimiter
}

func newPasswordFixture() *passwordFixture {
	f := &passwordFixture{
		userRepo: &stubUserRepo{usersByEmail: map[string]*models.User{
			"ana@example.com": {ID: 7, Username: "ana", Email: "ana@example.com"},
		}},
		tokenRepo: newStubTokenRepo(),
		mailer:    &stubMailer{},
		limiter:   &stubLimiter{allowed: true},
	}

	svc := service.NewPasswordService(f.userRepo, f.tokenRepo, f.mailer, f.limiter, 2*time.Hour)

	f.router = gin.New()
	handler.NewPasswordHandler(svc).RegisterRoutes(f.router.Group("/api/v1"))
	return f
}

func TestPasswordHandler_Forgot(t *testing.T) {
	t.Run("issues a token and mails the link", func(t *testing.T) {
		f := newPasswordFixture()

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/forgot-password", 0, gin.H{
			"email":            "ana@example.com",
			"resetPasswordUrl": "https://rpgtablemaker.app/reset",
		})

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())

		require.Len(t, f.tokenRepo.rows, 1)
		require.Len(t, f.mailer.sentTo, 1)
		assert.Equal(t, "ana@example.com", f.mailer.sentTo[0])
		assert.Equal(t, "ana", f.mailer.lastName)

		// The mailed link carries the persisted token
		var token string
		for tok := range f.tokenRepo.rows {
			token = tok
		}
		assert.True(t, strings.HasPrefix(f.mailer.lastURL, "https://rpgtablemaker.app/reset?token="))
		assert.Contains(t, f.mailer.lastURL, token)
	})

	t.Run("unknown email is 404", func(t *testing.T) {
		f := newPasswordFixture()

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/forgot-password", 0, gin.H{
			"email":            "ghost@example.com",
			"resetPasswordUrl": "https://rpgtablemaker.app/reset",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"BAD_REQUEST"`)
		assert.Empty(t, f.mailer.sentTo)
	})

	t.Run("invalid payload is 422", func(t *testing.T) {
		f := newPasswordFixture()

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/forgot-password", 0, gin.H{
			"email":            "not-an-email",
			"resetPasswordUrl": "https://rpgtablemaker.app/reset",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = doJSON(t, f.router, http.MethodPost, "/api/v1/forgot-password", 0, gin.H{
			"email": "ana@example.com",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rate limited issue is 429", func(t *testing.T) {
		f := newPasswordFixture()
		f.limiter.allowed = false

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/forgot-password", 0, gin.H{
			"email":            "ana@example.com",
			"resetPasswordUrl": "https://rpgtablemaker.app/reset",
		})

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Empty(t, f.tokenRepo.rows)
		assert.Empty(t, f.mailer.sentTo)
	})
}

func TestPasswordHandler_Reset(t *testing.T) {
	seed := func(f *passwordFixture, age time.Duration) string {
		const token = "f00dbabe"
		f.tokenRepo.rows[token] = &models.PasswordResetToken{
			UserID:    7,
			Token:     token,
			CreatedAt: time.Now().Add(-age),
		}
		return token
	}

	t.Run("fresh token resets the password and is consumed", func(t *testing.T) {
		f := newPasswordFixture()
		token := seed(f, time.Hour+59*time.Minute)

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"token":    token,
			"password": "new-password",
		})

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.NotEmpty(t, f.tokenRepo.consumedHash)
		assert.Empty(t, f.tokenRepo.rows)

		// Reusing the consumed token fails
		w = doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"token":    token,
			"password": "another-password",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("expired token is 410 and not consumed", func(t *testing.T) {
		f := newPasswordFixture()
		token := seed(f, 3*time.Hour)

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"token":    token,
			"password": "new-password",
		})

		assert.Equal(t, http.StatusGone, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"TOKEN_EXPIRED"`)
		assert.Contains(t, w.Body.String(), "Token has expired")
		assert.Contains(t, f.tokenRepo.rows, token)
	})

	t.Run("unknown token is 404", func(t *testing.T) {
		f := newPasswordFixture()

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"token":    "never-issued",
			"password": "new-password",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid payload is 422", func(t *testing.T) {
		f := newPasswordFixture()
		token := seed(f, time.Minute)

		w := doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"token":    token,
			"password": "abc",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = doJSON(t, f.router, http.MethodPost, "/api/v1/reset-password", 0, gin.H{
			"password": "long-enough",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
