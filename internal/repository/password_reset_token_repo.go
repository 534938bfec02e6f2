package repository

import (
	"errors"
	"time"

	"github.com/tablemaker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTokenNotFound = errors.New("password reset token not found")
)

// PasswordResetTokenRepository handles reset-token data access
type PasswordResetTokenRepository interface {
	Upsert(userID uint, token string, issuedAt time.Time) error
	GetByToken(token string) (*models.PasswordResetToken, error)
	ConsumeWithPassword(token *models.PasswordResetToken, passwordHash string) error
	DeleteExpired(before time.Time) (int64, error)
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

// Upsert writes the user's live token, overwriting any prior one so a
// user never holds more than a single usable token.
func (r *passwordResetTokenRepository) Upsert(userID uint, token string, issuedAt time.Time) error {
	row := models.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: issuedAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":      token,
			"created_at": issuedAt,
		}),
	}).Create(&row).Error
}

// GetByToken retrieves a token row with its owning user loaded
func (r *passwordResetTokenRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	result := r.db.Preload("User").Where("token = ?", token).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}
	return &row, nil
}

// ConsumeWithPassword persists the user's new password hash and
// deletes the consumed token in a single transaction.
func (r *passwordResetTokenRepository) ConsumeWithPassword(token *models.PasswordResetToken, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", passwordHash).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.PasswordResetToken{}, token.ID).Error
	})
}

// DeleteExpired purges tokens issued before the cutoff and returns
// how many rows were removed.
func (r *passwordResetTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", before).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
