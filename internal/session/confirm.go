package session

import (
	"sync"

	"github.com/google/uuid"
)

// ConfirmationKind names the decision a pending confirmation asks for.
type ConfirmationKind string

const (
	// ConfirmOpenURL asks whether to open a scanned, openable URL.
	ConfirmOpenURL ConfirmationKind = "open-url"
	// ConfirmClearHistory asks whether to wipe the scan history.
	ConfirmClearHistory ConfirmationKind = "clear-history"
)

// Confirmation is a pending two-phase user decision. It is raised by the
// controller and resolved later by an explicit accept or dismiss, which
// decouples the decision point from any particular presentation mechanism.
type Confirmation struct {
	ID      string           `json:"id"`
	Kind    ConfirmationKind `json:"kind"`
	Payload string           `json:"payload,omitempty"`
}

type confirmations struct {
	mu      sync.Mutex
	pending map[string]Confirmation
}

func newConfirmations() *confirmations {
	return &confirmations{pending: make(map[string]Confirmation)}
}

func (c *confirmations) add(kind ConfirmationKind, payload string) Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	conf := Confirmation{
		ID:      uuid.NewString(),
		Kind:    kind,
		Payload: payload,
	}
	c.pending[conf.ID] = conf
	return conf
}

// take removes and returns the pending confirmation. Resolving consumes it
// whichever way the user decides.
func (c *confirmations) take(id string) (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conf, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	return conf, ok
}

func (c *confirmations) list() []Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Confirmation, 0, len(c.pending))
	for _, conf := range c.pending {
		out = append(out, conf)
	}
	return out
}
