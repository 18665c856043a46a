package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"reqgen/internal/config"
	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
)

// SettingsService implements the SettingsService interface
type SettingsService struct {
	settingsRepo repositories.SettingsRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo repositories.SettingsRepository,
	logger *slog.Logger,
) services.SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GetSettings returns the saved settings or empty defaults
func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	// Nothing saved yet - every field defaults to the empty string
	if settings == nil {
		s.logger.Debug("no settings found, returning defaults")
		settings = &models.Settings{}
	}

	return settings, nil
}

// UpdateSettings replaces every settings field
func (s *SettingsService) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	if req == nil {
		return nil, domain.NewValidationError("body", "request body is required")
	}

	settings := &models.Settings{
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		APIKey:      strings.TrimSpace(req.APIKey),
		Logo:        req.Logo,
		UpdatedAt:   s.now().UTC(),
	}

	err := validation.ValidateStruct(settings,
		validation.Field(&settings.CompanyName, validation.Length(0, config.MaxCompanyNameLength)),
		validation.Field(&settings.Address, validation.Length(0, 1000)),
		validation.Field(&settings.Phone, validation.Length(0, 64)),
		validation.Field(&settings.Email, is.EmailFormat),
		validation.Field(&settings.Logo, validation.Length(0, config.MaxLogoLength)),
	)
	if err != nil {
		return nil, validationProblem(err)
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	// never log the API key itself
	s.logger.Info("settings updated",
		"company_name", settings.CompanyName,
		"has_logo", settings.Logo != "",
		"has_api_key", settings.APIKey != "",
	)

	return settings, nil
}

// validationProblem converts ozzo errors into a domain.ValidationError
func validationProblem(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return domain.NewFieldValidationError(verrs)
}
