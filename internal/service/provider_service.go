package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type providerRepository interface {
	ListByServiceType(ctx context.Context, serviceType string) ([]models.ProviderDetail, error)
	FindByUserID(ctx context.Context, userID int64) (*models.ServiceProvider, error)
	AddPortfolioImage(ctx context.Context, providerID int64, imageURL string) (int64, error)
	ListPortfolioImages(ctx context.Context, providerID int64) ([]models.PortfolioImage, error)
}

type directoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Directory cache keys. Anything that changes what a directory listing shows
// (new provider, portfolio edit) must invalidate the whole pattern.
const (
	directoryCacheKeyFormat = "directory:providers:%s"
	directoryCachePattern   = "directory:providers:*"
)

// ProviderService serves the public provider directory with a cache-aside
// Redis layer, plus portfolio management for provider accounts.
type ProviderService struct {
	repo         providerRepository
	cache        directoryCache
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	cacheTTL     time.Duration
	cacheEnabled bool
}

// NewProviderService constructs a ProviderService. cache may be nil.
func NewProviderService(repo providerRepository, cache directoryCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration, cacheEnabled bool) *ProviderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProviderService{
		repo:         repo,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cacheTTL:     cacheTTL,
		cacheEnabled: cacheEnabled,
	}
}

func (s *ProviderService) cacheActive() bool {
	return s.cacheEnabled && s.cache != nil
}

// ListByServiceType returns the provider directory for a service type.
func (s *ProviderService) ListByServiceType(ctx context.Context, serviceType string) ([]models.ProviderDetail, error) {
	if serviceType == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "service type is required")
	}

	cacheKey := fmt.Sprintf(directoryCacheKeyFormat, serviceType)
	if s.cacheActive() {
		var cached []models.ProviderDetail
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("directory cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	providers, err := s.repo.ListByServiceType(ctx, serviceType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch providers")
	}
	if providers == nil {
		providers = []models.ProviderDetail{}
	}

	if s.cacheActive() {
		if err := s.cache.Set(ctx, cacheKey, providers, s.cacheTTL); err != nil {
			s.logger.Warn("directory cache write failed", zap.Error(err))
		}
	}

	return providers, nil
}

// AddPortfolioImage adds an image to the calling provider's portfolio.
func (s *ProviderService) AddPortfolioImage(ctx context.Context, userID int64, req models.AddPortfolioImageRequest) (*models.PortfolioImage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid portfolio payload")
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no provider profile")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load provider profile")
	}

	id, err := s.repo.AddPortfolioImage(ctx, profile.ID, req.ImageURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add portfolio image")
	}

	if s.cacheActive() {
		if err := s.cache.DeleteByPattern(ctx, directoryCachePattern); err != nil {
			s.logger.Warn("directory cache invalidation failed", zap.Error(err))
		}
	}

	return &models.PortfolioImage{ID: id, ProviderID: profile.ID, ImageURL: req.ImageURL}, nil
}

// ListPortfolioImages returns a provider's portfolio.
func (s *ProviderService) ListPortfolioImages(ctx context.Context, providerID int64) ([]models.PortfolioImage, error) {
	images, err := s.repo.ListPortfolioImages(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch portfolio")
	}
	if images == nil {
		images = []models.PortfolioImage{}
	}
	return images, nil
}
