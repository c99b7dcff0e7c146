package repositories

import (
	"context"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	return translate(r.db.WithContext(ctx).Create(token).Error, "create token")
}

func (r *TokenRepository) FindActive(ctx context.Context, jti string, userID int64, now time.Time) (models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("jti = ? AND user_id = ? AND expires_at > ?", jti, userID, now).
		First(&token).Error
	return token, translate(err, "refresh token")
}

func (r *TokenRepository) DeleteByJTI(ctx context.Context, jti string) error {
	return translate(r.db.WithContext(ctx).Where("jti = ?", jti).Delete(&models.Token{}).Error, "delete token")
}

// PurgeExpired removes refresh tokens that can no longer be redeemed.
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Token{})
	return result.RowsAffected, translate(result.Error, "purge tokens")
}
