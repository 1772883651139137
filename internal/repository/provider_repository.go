package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
)

// ProviderRepository reads the public provider directory and portfolios.
type ProviderRepository struct {
	db *sqlx.DB
}

// NewProviderRepository creates a new instance of ProviderRepository.
func NewProviderRepository(db *sqlx.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// ListByServiceType returns provider profiles joined with their user record.
func (r *ProviderRepository) ListByServiceType(ctx context.Context, serviceType string) ([]models.ProviderDetail, error) {
	const query = `SELECT sp.id, sp.user_id, sp.service_type, sp.experience, sp.price_range, sp.description,
			sp.rating, sp.projects_completed, u.name, u.email
		FROM service_providers sp
		JOIN users u ON sp.user_id = u.id
		WHERE sp.service_type = $1
		ORDER BY sp.rating DESC, sp.id ASC`
	var providers []models.ProviderDetail
	if err := r.db.SelectContext(ctx, &providers, query, serviceType); err != nil {
		return nil, fmt.Errorf("list providers by service type: %w", err)
	}
	return providers, nil
}

// FindByUserID returns the provider profile for a user account.
func (r *ProviderRepository) FindByUserID(ctx context.Context, userID int64) (*models.ServiceProvider, error) {
	const query = `SELECT id, user_id, service_type, experience, price_range, description, rating, projects_completed
		FROM service_providers WHERE user_id = $1 LIMIT 1`
	var profile models.ServiceProvider
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddPortfolioImage appends an image to a provider's portfolio.
func (r *ProviderRepository) AddPortfolioImage(ctx context.Context, providerID int64, imageURL string) (int64, error) {
	const query = `INSERT INTO portfolio_images (provider_id, image_url) VALUES ($1, $2) RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, providerID, imageURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("add portfolio image: %w", err)
	}
	return id, nil
}

// ListPortfolioImages returns a provider's portfolio in insertion order.
func (r *ProviderRepository) ListPortfolioImages(ctx context.Context, providerID int64) ([]models.PortfolioImage, error) {
	const query = `SELECT id, provider_id, image_url FROM portfolio_images WHERE provider_id = $1 ORDER BY id ASC`
	var images []models.PortfolioImage
	if err := r.db.SelectContext(ctx, &images, query, providerID); err != nil {
		return nil, fmt.Errorf("list portfolio images: %w", err)
	}
	return images, nil
}
