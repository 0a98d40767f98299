package repository

import (
	"context"
	"errors"

	"github.com/rushilbhatia3/FMS/internal/model"

	"gorm.io/gorm"
)

// SettingRepository manages the singleton settings row (id = 1).
type SettingRepository interface {
	Get(ctx context.Context) (*model.Setting, error)
	Save(ctx context.Context, s *model.Setting) error
	DB() *gorm.DB
}

type settingRepo struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) SettingRepository { return &settingRepo{db: db} }

func (r *settingRepo) DB() *gorm.DB { return r.db }

func (r *settingRepo) Get(ctx context.Context) (*model.Setting, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).First(&s, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = model.Setting{ID: 1, ReminderFreqMinutes: 180}
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	return &s, err
}

func (r *settingRepo) Save(ctx context.Context, s *model.Setting) error {
	s.ID = 1
	return r.db.WithContext(ctx).Save(s).Error
}
