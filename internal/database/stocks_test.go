package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

func createTestUser(t *testing.T, testDB *TestDB, email, webhookURL string) *models.User {
	t.Helper()
	user := &models.User{Email: email, WebhookURL: webhookURL}
	require.NoError(t, testDB.CreateUser(user))
	return user
}

func newWatch(userID int, symbol string) *models.StockWatch {
	return &models.StockWatch{
		UserID:          userID,
		Symbol:          symbol,
		BuyPrice:        decimal.NewFromFloat(3000.00),
		ProfitThreshold: decimal.NewFromFloat(10.00),
		LossThreshold:   decimal.NewFromFloat(5.00),
		IsActive:        true,
	}
}

func TestStocksRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateStock assigns an ID", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "one@example.com", "https://discord.test/hook")

		stock := newWatch(user.ID, "TCS")
		err := testDB.CreateStock(stock)
		require.NoError(t, err)
		assert.NotZero(t, stock.ID)
		assert.False(t, stock.CreatedAt.IsZero())
	})

	t.Run("GetStockByID joins the user channel config", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "two@example.com", "https://discord.test/hook")

		stock := newWatch(user.ID, "RELIANCE")
		require.NoError(t, testDB.CreateStock(stock))

		retrieved, err := testDB.GetStockByID(stock.ID)
		require.NoError(t, err)
		assert.Equal(t, "RELIANCE", retrieved.Symbol)
		assert.True(t, decimal.NewFromFloat(3000.00).Equal(retrieved.BuyPrice))
		assert.Equal(t, "https://discord.test/hook", retrieved.WebhookURL)
		assert.Equal(t, "two@example.com", retrieved.Email)
		assert.Nil(t, retrieved.LastAlertSent)
	})

	t.Run("GetStockByID reports a missing stock", func(t *testing.T) {
		testDB.TruncateAll(t)
		_, err := testDB.GetStockByID(9999)
		require.Error(t, err)
	})

	t.Run("GetActiveStocks skips inactive watches", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "three@example.com", "")

		active := newWatch(user.ID, "TCS")
		require.NoError(t, testDB.CreateStock(active))

		inactive := newWatch(user.ID, "INFY")
		inactive.IsActive = false
		require.NoError(t, testDB.CreateStock(inactive))

		stocks, err := testDB.GetActiveStocks()
		require.NoError(t, err)
		require.Len(t, stocks, 1)
		assert.Equal(t, "TCS", stocks[0].Symbol)
	})

	t.Run("GetActiveStocks coalesces a missing webhook", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "four@example.com", "")

		require.NoError(t, testDB.CreateStock(newWatch(user.ID, "TCS")))

		stocks, err := testDB.GetActiveStocks()
		require.NoError(t, err)
		require.Len(t, stocks, 1)
		assert.Empty(t, stocks[0].WebhookURL)
		assert.Equal(t, "four@example.com", stocks[0].Email)
	})

	t.Run("GetStocksByUser filters by owner", func(t *testing.T) {
		testDB.TruncateAll(t)
		owner := createTestUser(t, testDB, "owner@example.com", "")
		other := createTestUser(t, testDB, "other@example.com", "")

		require.NoError(t, testDB.CreateStock(newWatch(owner.ID, "TCS")))
		require.NoError(t, testDB.CreateStock(newWatch(owner.ID, "RELIANCE")))
		require.NoError(t, testDB.CreateStock(newWatch(other.ID, "INFY")))

		stocks, err := testDB.GetStocksByUser(owner.ID)
		require.NoError(t, err)
		assert.Len(t, stocks, 2)
	})

	t.Run("UpdateStockSymbol persists the correction", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "five@example.com", "")

		stock := newWatch(user.ID, "Reliance Industries")
		require.NoError(t, testDB.CreateStock(stock))

		err := testDB.UpdateStockSymbol(stock.ID, "RELIANCE.NS")
		require.NoError(t, err)

		retrieved, err := testDB.GetStockByID(stock.ID)
		require.NoError(t, err)
		assert.Equal(t, "RELIANCE.NS", retrieved.Symbol)
	})

	t.Run("UpdateStockSymbol reports a missing stock", func(t *testing.T) {
		testDB.TruncateAll(t)
		err := testDB.UpdateStockSymbol(9999, "NOPE")
		require.Error(t, err)
	})

	t.Run("TouchLastAlertSent sets the timestamp", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "six@example.com", "")

		stock := newWatch(user.ID, "TCS")
		require.NoError(t, testDB.CreateStock(stock))

		require.NoError(t, testDB.TouchLastAlertSent(stock.ID))

		retrieved, err := testDB.GetStockByID(stock.ID)
		require.NoError(t, err)
		require.NotNil(t, retrieved.LastAlertSent)
	})

	t.Run("SetStockActive toggles the watch", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "seven@example.com", "")

		stock := newWatch(user.ID, "TCS")
		require.NoError(t, testDB.CreateStock(stock))

		require.NoError(t, testDB.SetStockActive(stock.ID, false))

		stocks, err := testDB.GetActiveStocks()
		require.NoError(t, err)
		assert.Empty(t, stocks)

		require.NoError(t, testDB.SetStockActive(stock.ID, true))

		stocks, err = testDB.GetActiveStocks()
		require.NoError(t, err)
		assert.Len(t, stocks, 1)
	})

	t.Run("DeleteStock removes the watch", func(t *testing.T) {
		testDB.TruncateAll(t)
		user := createTestUser(t, testDB, "eight@example.com", "")

		stock := newWatch(user.ID, "TCS")
		require.NoError(t, testDB.CreateStock(stock))

		require.NoError(t, testDB.DeleteStock(stock.ID))

		_, err := testDB.GetStockByID(stock.ID)
		require.Error(t, err)

		err = testDB.DeleteStock(stock.ID)
		require.Error(t, err)
	})
}
