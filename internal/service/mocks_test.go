package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/types"
)

// mockAssetRepo is an in-memory AssetRepository
type mockAssetRepo struct {
	assets    []*models.Asset
	createErr error
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if m.createErr != nil {
		return m.createErr
	}
	if asset.ID == "" {
		asset.ID = "generated-id"
	}
	m.assets = append(m.assets, asset)
	return nil
}

func (m *mockAssetRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Asset, error) {
	for _, asset := range m.assets {
		if asset.ID == id && asset.UserID == userID {
			return asset, nil
		}
	}
	return nil, types.NewAssetNotFoundError(id)
}

func (m *mockAssetRepo) ListByUser(ctx context.Context, userID string) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, asset := range m.assets {
		if asset.UserID == userID {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (m *mockAssetRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	for i, asset := range m.assets {
		if asset.ID == id && asset.UserID == userID {
			m.assets = append(m.assets[:i], m.assets[i+1:]...)
			return nil
		}
	}
	return types.NewAssetNotFoundError(id)
}

// mockPriceRepo serves canned price data keyed by calendar date
type mockPriceRepo struct {
	pricesByDate map[string]map[string]decimal.Decimal // date -> assetID -> price
	totals       []*models.SeriesPoint
	history      map[string][]*models.PricePoint
}

func newMockPriceRepo() *mockPriceRepo {
	return &mockPriceRepo{
		pricesByDate: make(map[string]map[string]decimal.Decimal),
		history:      make(map[string][]*models.PricePoint),
	}
}

func (m *mockPriceRepo) setPrice(date time.Time, assetID string, price decimal.Decimal) {
	key := models.DateOnly(date).Format("2006-01-02")
	if m.pricesByDate[key] == nil {
		m.pricesByDate[key] = make(map[string]decimal.Decimal)
	}
	m.pricesByDate[key][assetID] = price
}

func (m *mockPriceRepo) PricesForUserAndDate(ctx context.Context, userID string, date time.Time) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for assetID, price := range m.pricesByDate[models.DateOnly(date).Format("2006-01-02")] {
		prices[assetID] = price
	}
	return prices, nil
}

func (m *mockPriceRepo) TotalsByDate(ctx context.Context, userID string, from, to time.Time) ([]*models.SeriesPoint, error) {
	var out []*models.SeriesPoint
	for _, point := range m.totals {
		if !point.Date.Before(models.DateOnly(from)) && !point.Date.After(models.DateOnly(to)) {
			out = append(out, point)
		}
	}
	return out, nil
}

func (m *mockPriceRepo) ListByAsset(ctx context.Context, assetID string) ([]*models.PricePoint, error) {
	return m.history[assetID], nil
}

// mockUserRepo is an in-memory UserRepository
type mockUserRepo struct {
	users map[string]*models.User // keyed by privy id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, types.NewUserNotFoundError(id)
}

func (m *mockUserRepo) UpsertByPrivyID(ctx context.Context, privyID string) (*models.User, error) {
	if user, ok := m.users[privyID]; ok {
		return user, nil
	}
	user := &models.User{
		ID:      "user-" + privyID,
		PrivyID: privyID,
	}
	m.users[privyID] = user
	return user, nil
}

// mockCache is an in-memory ValuationCache
type mockCache struct {
	entries       map[string][]byte
	invalidations []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *mockCache) GenerateSnapshotKey(userID string, date time.Time) string {
	return "snapshot:" + userID + ":" + date.Format("2006-01-02")
}

func (m *mockCache) GenerateAnalyticsKey(userID string, date time.Time) string {
	return "analytics:" + userID + ":" + date.Format("2006-01-02")
}

func (m *mockCache) InvalidateUser(ctx context.Context, userID string) error {
	m.invalidations = append(m.invalidations, userID)
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}

func quietLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelFatal, logging.FormatText)
}
