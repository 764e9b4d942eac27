package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []TransactionStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func TestTransactionStatus_HappyPath(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusDelivered))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusCancelled))
}

func TestTransactionStatus_Rejected(t *testing.T) {
	assert.False(t, StatusDelivered.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusPending))
	assert.False(t, StatusShipped.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo(StatusShipped))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestTransactionStatus_NoCycles(t *testing.T) {
	// depth-first walk from every state must never revisit a state on the current path
	var visit func(s TransactionStatus, path map[TransactionStatus]bool)
	visit = func(s TransactionStatus, path map[TransactionStatus]bool) {
		require.False(t, path[s], "cycle through %s", s)
		path[s] = true
		for _, next := range transitions[s] {
			visit(next, path)
		}
		delete(path, s)
	}
	for _, s := range allStatuses {
		visit(s, map[TransactionStatus]bool{})
	}
}

func TestTransactionStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestTransactionStatus_Labels(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range allStatuses {
		label := s.Label()
		assert.NotEqual(t, "Unknown", label, s)
		assert.False(t, seen[label], "duplicate label %q", label)
		seen[label] = true
	}
	assert.Equal(t, "Unknown", TransactionStatus("confirmed").Label())
}

func TestParseTransactionStatus(t *testing.T) {
	s, err := ParseTransactionStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseTransactionStatus("confirmed")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTransaction_MarshalJSONAddsLabel(t *testing.T) {
	b, err := json.Marshal(Transaction{TransactionID: "TRX-1", Status: StatusShipped})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Shipped", out["statusLabel"])
	assert.Equal(t, "shipped", out["status"])
	assert.Equal(t, "TRX-1", out["transactionId"])
}

func TestErrors_MatchSentinels(t *testing.T) {
	assert.ErrorIs(t, &InsufficientStockError{BookID: "b", Requested: 2, Available: 1}, ErrInsufficientStock)
	assert.ErrorIs(t, &TransitionError{From: StatusDelivered, To: StatusPending}, ErrInvalidTransition)
	assert.ErrorIs(t, NewValidationError("quantity", "must be positive"), ErrValidation)

	infra := &InfrastructureError{Op: "find book", Err: errors.New("connection refused")}
	assert.ErrorIs(t, infra, ErrInfrastructure)
	assert.Contains(t, infra.Error(), "connection refused")
}
