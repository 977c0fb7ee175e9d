package client

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/enrollment"
)

// MsgDropFailed is surfaced when the remote drop call fails; the workflow
// stays in its confirmation state so the user can retry or cancel.
const MsgDropFailed = "Unable to drop the section right now. Please try again."

// DropWorkflow runs the three-state drop confirmation for one profile.
// It is transient: construct one per drop interaction and discard it after.
type DropWorkflow struct {
	client    *Client
	profileID string
	state     enrollment.DropState
}

// NewDropWorkflow starts a drop interaction for the given profile.
func (c *Client) NewDropWorkflow(profileID string) *DropWorkflow {
	return &DropWorkflow{client: c, profileID: profileID, state: enrollment.DropInitial}
}

// State exposes the machine's position for rendering.
func (w *DropWorkflow) State() enrollment.DropState {
	return w.state
}

// Request moves the workflow into the confirmation step.
func (w *DropWorkflow) Request() error {
	next, err := enrollment.DropTransition(w.state, enrollment.DropRequested)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

// Cancel abandons the confirmation step with no side effects.
func (w *DropWorkflow) Cancel() error {
	next, err := enrollment.DropTransition(w.state, enrollment.DropCancelled)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

// Confirm fires the remote drop call. The machine only enters its terminal
// state once the call succeeds; on failure it stays in confirmation and the
// failure is surfaced for acknowledgment. On success the consumer is
// redirected away from the section view, which no longer exists for them.
func (w *DropWorkflow) Confirm(ctx context.Context) error {
	if _, err := enrollment.DropTransition(w.state, enrollment.DropConfirmed); err != nil {
		return err
	}

	path := fmt.Sprintf("/students/%s/drop", w.profileID)
	if err := w.client.transport.PatchAction(ctx, path, http.MethodPatch); err != nil {
		w.client.logger.Warn("drop call failed",
			zap.String("profile_id", w.profileID), zap.Error(err))
		w.client.presenter.Alert(MsgDropFailed)
		return err
	}

	w.state = enrollment.DropDone
	w.client.nav.Home()
	return nil
}
