package client

import (
	"context"
	"encoding/json"
)

// ActionResult is the outcome of a state-changing call: a success flag
// independent of body shape, the decoded short code when the server
// rejected, and the raw body for diagnostics.
type ActionResult struct {
	OK        bool
	ShortCode string
	Body      json.RawMessage
}

// Transport performs the scheduler's remote calls. The client treats it as
// an opaque collaborator; implementations own decoding and transport errors.
type Transport interface {
	// FetchList GETs and decodes a list endpoint into dest.
	FetchList(ctx context.Context, path string, dest interface{}) error
	// SubmitAction POSTs a payload and reports the server's verdict.
	SubmitAction(ctx context.Context, path string, payload interface{}) (ActionResult, error)
	// PatchAction issues a bodyless state-changing call.
	PatchAction(ctx context.Context, path, method string) error
}

// Presenter surfaces user-visible outcomes. Alert blocks until the user
// acknowledges; failures are never reported via silent affordances.
type Presenter interface {
	Alert(message string)
}

// Navigator fires navigation intents.
type Navigator interface {
	ToSection(sectionID string)
	Home()
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}
