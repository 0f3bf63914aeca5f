package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/nextstep-web/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps sessions in the session_records table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Load(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, nil
	}
	var rec models.SessionRecord
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return Session{AccessToken: rec.AccessToken, Username: rec.Username, Role: rec.UserRole}, nil
}

func (s *GormStore) Save(ctx context.Context, id string, sess Session) error {
	rec := models.SessionRecord{
		ID:          id,
		AccessToken: sess.AccessToken,
		UserRole:    sess.Role,
		Username:    sess.Username,
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "user_role", "username", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.SessionRecord{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
