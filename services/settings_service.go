package services

import (
	"context"
	"errors"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/repository"

	"go.uber.org/zap"
)

// SettingsService reads and writes global portal toggles. Values are read
// from the store on every call.
type SettingsService struct {
	repo   repository.SettingRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewSettingsService(repo repository.SettingRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger, now: utcNow}
}

// BlindReview returns the blind review setting row; a missing row reads as
// disabled.
func (s *SettingsService) BlindReview(ctx context.Context) (models.PortalSetting, error) {
	setting, err := s.repo.Get(ctx, models.SettingBlindReview)
	if errors.Is(err, repository.ErrNotFound) {
		return models.PortalSetting{Key: models.SettingBlindReview}, nil
	}
	if err != nil {
		return models.PortalSetting{}, storage("failed to read blind review setting", err)
	}
	return *setting, nil
}

// BlindReviewEnabled reports whether blind review is on.
func (s *SettingsService) BlindReviewEnabled(ctx context.Context) (bool, error) {
	setting, err := s.BlindReview(ctx)
	if err != nil {
		return false, err
	}
	return setting.BoolValue, nil
}

func (s *SettingsService) SetBlindReview(ctx context.Context, enabled bool, updatedBy uint) (models.PortalSetting, error) {
	setting := models.PortalSetting{
		Key:       models.SettingBlindReview,
		BoolValue: enabled,
		UpdatedBy: &updatedBy,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Put(ctx, &setting); err != nil {
		return models.PortalSetting{}, storage("failed to update blind review setting", err)
	}
	s.logger.Info("blind review setting changed", zap.Bool("enabled", enabled), zap.Uint("updated_by", updatedBy))
	return setting, nil
}
