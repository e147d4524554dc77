// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relay hands captures from the browser extension to the canvas.
//
// The server side is a single-slot mailbox: a submission replaces whatever
// is held, and a retrieval empties the slot, so each capture is delivered at
// most once. The client side submits captures and polls for them.
package relay

import (
	"sync"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// Mailbox holds at most one capture.
type Mailbox struct {
	mu   sync.Mutex
	held *types.Capture
}

// Submit stores c, dropping any capture not yet retrieved, and returns the
// stored value.
func (m *Mailbox) Submit(c types.Capture) types.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = &c
	return c
}

// Retrieve empties the mailbox and returns what it held. ok is false when it
// was already empty.
func (m *Mailbox) Retrieve() (c types.Capture, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		return types.Capture{}, false
	}
	c, m.held = *m.held, nil
	return c, true
}
