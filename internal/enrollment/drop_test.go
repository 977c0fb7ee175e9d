package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropTransitionHappyPath(t *testing.T) {
	state, err := DropTransition(DropInitial, DropRequested)
	require.NoError(t, err)
	assert.Equal(t, DropConfirmPending, state)

	state, err = DropTransition(state, DropConfirmed)
	require.NoError(t, err)
	assert.Equal(t, DropDone, state)
}

func TestDropTransitionCancelReturnsToInitial(t *testing.T) {
	state, err := DropTransition(DropInitial, DropRequested)
	require.NoError(t, err)

	state, err = DropTransition(state, DropCancelled)
	require.NoError(t, err)
	assert.Equal(t, DropInitial, state)

	// the round trip leaves the machine re-usable
	state, err = DropTransition(state, DropRequested)
	require.NoError(t, err)
	assert.Equal(t, DropConfirmPending, state)
}

func TestDropTransitionNoShortcutToDropped(t *testing.T) {
	state, err := DropTransition(DropInitial, DropConfirmed)
	assert.Error(t, err)
	assert.Equal(t, DropInitial, state)

	state, err = DropTransition(DropInitial, DropCancelled)
	assert.Error(t, err)
	assert.Equal(t, DropInitial, state)
}

func TestDropTransitionDroppedIsTerminal(t *testing.T) {
	for _, event := range []DropEvent{DropRequested, DropCancelled, DropConfirmed} {
		state, err := DropTransition(DropDone, event)
		assert.Error(t, err)
		assert.Equal(t, DropDone, state)
	}
}
