package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_Initial(t *testing.T) {
	assert.Equal(t, StatusPendingVerification, NewMachine(Config{RequireEmailVerification: true}).Initial())
	assert.Equal(t, StatusPending, NewMachine(Config{}).Initial())
}

func TestMachine_Transitions(t *testing.T) {
	m := NewMachine(Config{RequireEmailVerification: true})

	tests := []struct {
		from   Status
		action Action
		to     Status
		ok     bool
	}{
		{StatusPendingVerification, ActionVerify, StatusPending, true},
		{StatusPendingVerification, ActionCancel, StatusCancelled, true},
		{StatusPendingVerification, ActionConfirm, "", false},
		{StatusPending, ActionConfirm, StatusConfirmed, true},
		{StatusPending, ActionReject, StatusRejected, true},
		{StatusPending, ActionCancel, StatusCancelled, true},
		{StatusPending, ActionUndo, "", false},
		{StatusPending, ActionVerify, "", false},
		{StatusRejected, ActionConfirm, StatusConfirmed, true},
		{StatusRejected, ActionCancel, "", false},
		{StatusConfirmed, ActionUndo, StatusPending, true},
		{StatusConfirmed, ActionCancel, StatusCancelled, true},
		{StatusConfirmed, ActionConfirm, "", false},
		{StatusConfirmed, ActionReject, "", false},
		{StatusCancelled, ActionReactivate, StatusConfirmed, true},
		{StatusCancelled, ActionConfirm, "", false},
		{StatusCancelled, ActionUndo, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			to, ok := m.Can(tt.from, tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, to)

			_, err := m.Transition(tt.from, tt.action)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestMachine_WithoutVerification(t *testing.T) {
	m := NewMachine(Config{RequireEmailVerification: false})

	_, ok := m.Can(StatusPendingVerification, ActionVerify)
	assert.False(t, ok)

	to, ok := m.Can(StatusPendingVerification, ActionConfirm)
	require.True(t, ok)
	assert.Equal(t, StatusConfirmed, to)

	assert.NotContains(t, m.AllowedStatuses(), StatusPendingVerification)
	assert.False(t, m.RequiresVerification())
}

func TestMachine_AllowedStatuses(t *testing.T) {
	m := NewMachine(Config{RequireEmailVerification: true})
	assert.Equal(t, []Status{
		StatusPendingVerification, StatusPending, StatusConfirmed, StatusRejected, StatusCancelled,
	}, m.AllowedStatuses())
}

func TestMachine_Actions(t *testing.T) {
	m := NewMachine(Config{RequireEmailVerification: true})
	assert.Equal(t, []Action{ActionConfirm, ActionReject, ActionCancel}, m.Actions(StatusPending))
	assert.Equal(t, []Action{ActionUndo, ActionCancel}, m.Actions(StatusConfirmed))
	assert.Empty(t, m.Actions(Status("archived")))
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("confirm")
	require.NoError(t, err)
	assert.Equal(t, ActionConfirm, a)

	_, err = ParseAction("approve")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
