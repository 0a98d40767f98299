package service

import (
	"context"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.SettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingRepository
}

func NewSettingsService(repo repository.SettingRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, Storage("load settings", err)
	}
	return &dto.SettingsResponse{
		AdminEmail:          setting.AdminEmail,
		ReminderFreqMinutes: setting.ReminderFreqMinutes,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, req dto.SettingsRequest) (*dto.SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, Storage("load settings", err)
	}
	setting.AdminEmail = req.AdminEmail
	setting.ReminderFreqMinutes = req.ReminderFreqMinutes
	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, Storage("save settings", err)
	}
	return &dto.SettingsResponse{
		AdminEmail:          setting.AdminEmail,
		ReminderFreqMinutes: setting.ReminderFreqMinutes,
	}, nil
}
