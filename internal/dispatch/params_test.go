package dispatch

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		message    string
		wantAmount string
		wantErr    error
	}{
		{name: "whole amount", amount: 5, message: "dinner", wantAmount: "5.00"},
		{name: "rounds to cents", amount: 7.456, message: "t-shirts", wantAmount: "7.46"},
		{name: "rounds down", amount: 3.141, message: "pi", wantAmount: "3.14"},
		{name: "no bound on amount", amount: 1e7, message: "big", wantAmount: "10000000.00"},
		{name: "max length message", amount: 1, message: strings.Repeat("a", 2000), wantAmount: "1.00"},
		{name: "length counts characters not bytes", amount: 1, message: strings.Repeat("é", 2000), wantAmount: "1.00"},
		{name: "empty message", amount: 1, message: "", wantErr: ErrInvalidMessage},
		{name: "whitespace message", amount: 1, message: " \t\n ", wantErr: ErrInvalidMessage},
		{name: "too long message", amount: 1, message: strings.Repeat("a", 2001), wantErr: ErrInvalidMessage},
		{name: "NaN amount", amount: math.NaN(), message: "x", wantErr: ErrInvalidAmount},
		{name: "infinite amount", amount: math.Inf(1), message: "x", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ValidateParameters(tt.amount, tt.message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, params.Amount.StringFixed(2))
			assert.Equal(t, tt.message, params.Message)
		})
	}
}

func TestValidateParameters_TooLongMessageNamesLimit(t *testing.T) {
	_, err := ValidateParameters(1, strings.Repeat("x", 2001))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2000")
}
