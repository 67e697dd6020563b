package coinboard

import (
	"context"
	"testing"

	m "coinboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestLedgerLoad(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 1500
	mock.holdings = []m.Holding{{ExternalId: "bitcoin", Quantity: 2}}

	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	assert.Equal(t, 1500.0, ledger.Balance())
	assert.Equal(t, 2.0, ledger.Owned("bitcoin"))
	assert.Equal(t, 0.0, ledger.Owned("ethereum"))
}

func TestBuyInsufficientBalanceNeverReachesServer(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 40
	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	err := ledger.Buy(context.Background(), m.Asset{ExternalId: "bitcoin", CurrentPrice: 50}, 1)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "insufficient balance")
	assert.Equal(t, 0, mock.CallCount("Buy bitcoin"))
	assert.Equal(t, 40.0, ledger.Balance())
}

func TestBuyPreconditions(t *testing.T) {

	ledger := NewLedger(NewBackendMock())

	err := ledger.Buy(context.Background(), m.Asset{ExternalId: "bitcoin", CurrentPrice: 50}, 0)
	assert.EqualError(t, err, "quantity must be at least 1")

	err = ledger.Buy(context.Background(), m.Asset{ExternalId: "bitcoin"}, 1)
	assert.EqualError(t, err, "price unavailable")
}

func TestBuyReplacesBalanceFromServer(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 1000
	mock.tradeBal = 850
	mock.holdings = []m.Holding{{ExternalId: "ethereum", Quantity: 3}}

	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	err := ledger.Buy(context.Background(), m.Asset{ExternalId: "ethereum", CurrentPrice: 50}, 3)
	assert.NoError(t, err)
	assert.Equal(t, 850.0, ledger.Balance())
	assert.Equal(t, 3.0, ledger.Owned("ethereum"))
	// holdings re-fetched after the trade
	assert.Equal(t, 2, mock.CallCount("Holdings"))
}

func TestSellRequiresOwnership(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 100
	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	err := ledger.Sell(context.Background(), m.Asset{ExternalId: "bitcoin", CurrentPrice: 50}, 1)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "insufficient quantity owned")
	assert.Equal(t, 0, mock.CallCount("Sell bitcoin"))
}

func TestSell(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 100
	mock.tradeBal = 200
	mock.holdings = []m.Holding{{ExternalId: "bitcoin", Quantity: 2}}

	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	err := ledger.Sell(context.Background(), m.Asset{ExternalId: "bitcoin", CurrentPrice: 50}, 2)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, ledger.Balance())
}

func TestAddFunds(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 10
	ledger := NewLedger(mock)

	assert.NoError(t, ledger.AddFunds(context.Background(), "25,50"))
	assert.Equal(t, 35.5, ledger.Balance())
}

func TestParseAmount(t *testing.T) {

	testcases := []struct {
		name   string
		raw    string
		amount float64
		errMsg string
	}{
		{name: "plain", raw: "100", amount: 100},
		{name: "dot decimal", raw: "12.50", amount: 12.5},
		{name: "comma decimal", raw: "12,50", amount: 12.5},
		{name: "padded", raw: " 7 ", amount: 7},
		{name: "empty", raw: "", errMsg: "amount is required"},
		{name: "blank", raw: "   ", errMsg: "amount is required"},
		{name: "not a number", raw: "ten", errMsg: "amount must be a number"},
		{name: "zero", raw: "0", errMsg: "amount must be positive"},
		{name: "negative", raw: "-5", errMsg: "amount must be positive"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := ParseAmount(tc.raw)
			if tc.errMsg != "" {
				assert.True(t, IsValidation(err))
				assert.EqualError(t, err, tc.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.amount, amount)
		})
	}
}

func TestHoldingsOrderedById(t *testing.T) {

	mock := NewBackendMock()
	mock.holdings = []m.Holding{
		{ExternalId: "solana", Quantity: 5},
		{ExternalId: "bitcoin", Quantity: 2},
		{ExternalId: "ethereum", Quantity: 3},
	}

	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	want := []m.Holding{
		{ExternalId: "bitcoin", Quantity: 2},
		{ExternalId: "ethereum", Quantity: 3},
		{ExternalId: "solana", Quantity: 5},
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, ledger.Holdings())
	}
}

func TestLedgerClear(t *testing.T) {

	mock := NewBackendMock()
	mock.balance = 500
	mock.holdings = []m.Holding{{ExternalId: "bitcoin", Quantity: 1}}

	ledger := NewLedger(mock)
	assert.NoError(t, ledger.Load(context.Background()))

	ledger.Clear()
	assert.Equal(t, 0.0, ledger.Balance())
	assert.Empty(t, ledger.Holdings())
}
