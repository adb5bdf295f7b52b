package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    PaymentStatus
		wantErr bool
	}{
		{"SUCCESS", StatusSuccess, false},
		{"failed", StatusFailed, false},
		{" refunded ", StatusRefunded, false},
		{"Pending", StatusPending, false},
		{"DONE", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePaymentStatus(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPaymentStatus, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestClassifyOutcome(t *testing.T) {
	assert.Equal(t, StatusSuccess, ClassifyOutcome(4, nil))
	assert.Equal(t, StatusSuccess, ClassifyOutcome(0, nil))
	assert.Equal(t, StatusFailed, ClassifyOutcome(3, nil))
	assert.Equal(t, StatusFailed, ClassifyOutcome(-1, nil))
	assert.Equal(t, StatusSuccess, ClassifyOutcome(-2, nil))
}

// The oracle being unreachable must never produce a successful payment.
func TestClassifyOutcomeFailsClosed(t *testing.T) {
	assert.Equal(t, StatusFailed, ClassifyOutcome(0, errors.New("timeout")))
	assert.Equal(t, StatusFailed, ClassifyOutcome(4, errors.New("connection refused")))
}
