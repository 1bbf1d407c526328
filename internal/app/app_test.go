package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehicleplan-backend/internal/config"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/projection"
)

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	cfg.DataSource = config.DataSourceFixture
	cfg.FixturePath = ""
	cfg.RedisAddr = ""
	cfg.InterestRateSource = config.InterestRateFixed
	cfg.SMTPHost = ""
	return cfg
}

func TestNew_Fixture(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()

	a, err := New(ctx, fixtureConfig(t), log)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Watcher)
	assert.Nil(t, a.Projection.InterestRates)
	assert.Equal(t, projection.DefaultManufacturer, a.Projection.DefaultManufacturer)

	require.NoError(t, a.SeedDefaultUser(ctx))
	token, err := a.Auth.Login(ctx, "testuser", "password123")
	require.NoError(t, err)
	user, err := a.Auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", user)

	found, err := a.Projection.CheckPromotions(ctx, "Mercedes S-Class")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNew_FixtureProjection(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()

	a, err := New(ctx, fixtureConfig(t), log)
	require.NoError(t, err)
	defer a.Close()

	result, err := a.Projection.Project(ctx, "testuser", domain.GoalInput{
		PaymentMethod:     domain.PaymentMethodFinancing,
		MaxMonthlyPayment: decimal.NewFromInt(5000),
		Model:             "Mercedes S-Class",
		ModelYear:         2025,
		IsNew:             true,
	})
	require.NoError(t, err)

	// Listing price 120000 with the fallback baseline and default depreciation
	assert.True(t, result.ResolvedPrice.Equal(decimal.NewFromInt(120000)))
	require.NotNil(t, result.Baseline)
	assert.True(t, result.Baseline.IsFallback)
	assert.Greater(t, result.MonthsToPurchase, 0)
	assert.Greater(t, result.MonthsAfterPurchase, 0)
}

func TestNew_BadFixture(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.FixturePath = "does-not-exist.toml"
	log, _ := logtest.NewNullLogger()

	_, err := New(context.Background(), cfg, log)
	assert.Error(t, err)
}

func TestNew_WatcherDisabled(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.PromotionSchedule = ""
	log, _ := logtest.NewNullLogger()

	a, err := New(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Nil(t, a.Watcher)
	assert.NoError(t, a.Close())
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("chatty").GetLevel())
}
