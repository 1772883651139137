package models

// ServiceProvider is the provider profile attached to a user account.
type ServiceProvider struct {
	ID                int64   `db:"id" json:"id"`
	UserID            int64   `db:"user_id" json:"user_id"`
	ServiceType       string  `db:"service_type" json:"service_type"`
	Experience        int     `db:"experience" json:"experience"`
	PriceRange        *string `db:"price_range" json:"price_range,omitempty"`
	Description       *string `db:"description" json:"description,omitempty"`
	Rating            float64 `db:"rating" json:"rating"`
	ProjectsCompleted int     `db:"projects_completed" json:"projects_completed"`
}

// ProviderDetail joins the provider profile with its user record for the
// public directory listing.
type ProviderDetail struct {
	ServiceProvider
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// PortfolioImage is a single portfolio entry for a provider profile.
type PortfolioImage struct {
	ID         int64  `db:"id" json:"id"`
	ProviderID int64  `db:"provider_id" json:"provider_id"`
	ImageURL   string `db:"image_url" json:"image_url"`
}

// AddPortfolioImageRequest adds an image to the caller's portfolio.
type AddPortfolioImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}
