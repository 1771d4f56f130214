package mpesa

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBalanceList(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    []BalanceRecord
		expectError bool
	}{
		{
			name: "two accounts with running balances",
			raw:  "Working Account|KES|700000.00|700000.00|0.00|0.00&Float Account|KES|0|0|0|0",
			expected: []BalanceRecord{
				{Account: "Working Account", Currency: "KES", Amount: decimal.RequireFromString("700000.00")},
				{Account: "Float Account", Currency: "KES", Amount: decimal.Zero},
			},
		},
		{
			name: "exactly three fields",
			raw:  "Fee For B2C Payment|KES|22.40",
			expected: []BalanceRecord{
				{Account: "Fee For B2C Payment", Currency: "KES", Amount: decimal.RequireFromString("22.40")},
			},
		},
		{
			name:     "empty",
			raw:      "",
			expected: []BalanceRecord{},
		},
		{
			name:     "blank",
			raw:      "   ",
			expected: []BalanceRecord{},
		},
		{
			name:        "invalid amount",
			raw:         "Working Account|KES|abc",
			expectError: true,
		},
		{
			name:        "too few fields",
			raw:         "Working Account|KES",
			expectError: true,
		},
		{
			name:        "second segment fails the whole list",
			raw:         "Working Account|KES|10.00&Float Account|KES|ten",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseBalanceList(tt.raw)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBalance))
				var formatErr *FormatError
				assert.True(t, errors.As(err, &formatErr))
				assert.Nil(t, records)
				return
			}

			require.NoError(t, err)
			require.Len(t, records, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want.Account, records[i].Account)
				assert.Equal(t, want.Currency, records[i].Currency)
				assert.True(t, want.Amount.Equal(records[i].Amount), "amount %s != %s", want.Amount, records[i].Amount)
			}
		})
	}
}

func TestFindByAccount(t *testing.T) {
	records, err := ParseBalanceList("Working Account|KES|700000.00&Float Account|KES|0&Float Account|USD|5")
	require.NoError(t, err)

	float := FindByAccount(records, "Float Account")
	require.NotNil(t, float)
	assert.Equal(t, "KES", float.Currency)
	assert.True(t, float.Amount.IsZero())

	assert.Nil(t, FindByAccount(records, "Unknown"))
	assert.Nil(t, FindByAccount(records, "float account"))
	assert.Nil(t, FindByAccount(nil, "Float Account"))
}

func TestFormatBalanceList(t *testing.T) {
	records := []BalanceRecord{
		{Account: "Working Account", Currency: "KES", Amount: decimal.RequireFromString("700000")},
		{Account: "Float Account", Currency: "KES", Amount: decimal.Zero},
	}

	raw := FormatBalanceList(records)
	assert.Equal(t, "Working Account|KES|700000.00&Float Account|KES|0.00", raw)

	parsed, err := ParseBalanceList(raw)
	require.NoError(t, err)
	assert.Len(t, parsed, 2)
	assert.Equal(t, "", FormatBalanceList(nil))
}
