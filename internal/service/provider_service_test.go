package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavikk35/SERVICES-MARKETPLACES/internal/models"
	appErrors "github.com/Bhavikk35/SERVICES-MARKETPLACES/pkg/errors"
)

type mockProviderRepo struct {
	providers map[string][]models.ProviderDetail
	profiles  map[int64]*models.ServiceProvider
	portfolio map[int64][]models.PortfolioImage
	nextID    int64
	listCalls int
}

func newMockProviderRepo() *mockProviderRepo {
	return &mockProviderRepo{
		providers: make(map[string][]models.ProviderDetail),
		profiles:  make(map[int64]*models.ServiceProvider),
		portfolio: make(map[int64][]models.PortfolioImage),
		nextID:    1,
	}
}

func (m *mockProviderRepo) ListByServiceType(ctx context.Context, serviceType string) ([]models.ProviderDetail, error) {
	m.listCalls++
	return m.providers[serviceType], nil
}

func (m *mockProviderRepo) FindByUserID(ctx context.Context, userID int64) (*models.ServiceProvider, error) {
	if profile, ok := m.profiles[userID]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProviderRepo) AddPortfolioImage(ctx context.Context, providerID int64, imageURL string) (int64, error) {
	id := m.nextID
	m.nextID++
	m.portfolio[providerID] = append(m.portfolio[providerID], models.PortfolioImage{
		ID:         id,
		ProviderID: providerID,
		ImageURL:   imageURL,
	})
	return id, nil
}

func (m *mockProviderRepo) ListPortfolioImages(ctx context.Context, providerID int64) ([]models.PortfolioImage, error) {
	return m.portfolio[providerID], nil
}

// mockDirectoryCache stores JSON blobs like the Redis-backed implementation.
type mockDirectoryCache struct {
	entries map[string][]byte
	deletes []string
}

func newMockDirectoryCache() *mockDirectoryCache {
	return &mockDirectoryCache{entries: make(map[string][]byte)}
}

func (m *mockDirectoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockDirectoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockDirectoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestProviderServiceListByServiceTypeCacheAside(t *testing.T) {
	repo := newMockProviderRepo()
	repo.providers["plumbing"] = []models.ProviderDetail{
		{ServiceProvider: models.ServiceProvider{ID: 1, UserID: 7, ServiceType: "plumbing"}, Name: "Pat", Email: "pat@example.com"},
	}
	cache := newMockDirectoryCache()
	svc := NewProviderService(repo, cache, nil, nil, nil, time.Minute, true)

	first, err := svc.ListByServiceType(context.Background(), "plumbing")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	// The second lookup is served from the cache.
	second, err := svc.ListByServiceType(context.Background(), "plumbing")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestProviderServiceListByServiceTypeWithoutCache(t *testing.T) {
	repo := newMockProviderRepo()
	svc := NewProviderService(repo, nil, nil, nil, nil, time.Minute, false)

	providers, err := svc.ListByServiceType(context.Background(), "plumbing")
	require.NoError(t, err)
	assert.NotNil(t, providers)
	assert.Empty(t, providers)

	_, err = svc.ListByServiceType(context.Background(), "")
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestProviderServiceAddPortfolioImageInvalidatesDirectory(t *testing.T) {
	repo := newMockProviderRepo()
	repo.profiles[7] = &models.ServiceProvider{ID: 3, UserID: 7, ServiceType: "plumbing"}
	cache := newMockDirectoryCache()
	svc := NewProviderService(repo, cache, nil, nil, nil, time.Minute, true)

	// Warm the cache first.
	_, err := svc.ListByServiceType(context.Background(), "plumbing")
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	image, err := svc.AddPortfolioImage(context.Background(), 7, models.AddPortfolioImageRequest{
		ImageURL: "https://example.com/work.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), image.ProviderID)

	assert.Contains(t, cache.deletes, "directory:providers:*")
	assert.Empty(t, cache.entries)
}

func TestProviderServiceAddPortfolioImageRequiresProfile(t *testing.T) {
	repo := newMockProviderRepo()
	svc := NewProviderService(repo, nil, nil, nil, nil, time.Minute, false)

	_, err := svc.AddPortfolioImage(context.Background(), 5, models.AddPortfolioImageRequest{
		ImageURL: "https://example.com/work.jpg",
	})
	assertErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestProviderServiceAddPortfolioImageValidatesURL(t *testing.T) {
	repo := newMockProviderRepo()
	repo.profiles[7] = &models.ServiceProvider{ID: 3, UserID: 7, ServiceType: "plumbing"}
	svc := NewProviderService(repo, nil, nil, nil, nil, time.Minute, false)

	_, err := svc.AddPortfolioImage(context.Background(), 7, models.AddPortfolioImageRequest{
		ImageURL: "not a url",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, repo.portfolio[3])
}

func TestProviderServiceListPortfolioImages(t *testing.T) {
	repo := newMockProviderRepo()
	repo.portfolio[3] = []models.PortfolioImage{
		{ID: 1, ProviderID: 3, ImageURL: "https://example.com/a.jpg"},
		{ID: 2, ProviderID: 3, ImageURL: "https://example.com/b.jpg"},
	}
	svc := NewProviderService(repo, nil, nil, nil, nil, time.Minute, false)

	images, err := svc.ListPortfolioImages(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	empty, err := svc.ListPortfolioImages(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
