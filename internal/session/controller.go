// Package session orchestrates one scan lifecycle: it accepts raw events
// only while armed, runs classification and enrichment, writes to the
// history store, and manages the armed/cooldown/paused session states.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/store"
)

// State is the session state visible to the shell.
type State string

const (
	// StateIdle is the initial state, before permission is granted.
	StateIdle State = "idle"
	// StateArmed accepts the next scan event.
	StateArmed State = "armed"
	// StateCooldown has consumed one event and awaits an explicit re-arm.
	StateCooldown State = "cooldown"
	// StatePaused has capture suspended by user action.
	StatePaused State = "paused"
)

// URLAnnotation is the human-readable hint set on URL-shaped payloads.
const URLAnnotation = "URL detectada, toca para abrir"

const timestampLayout = "1/2/2006, 3:04:05 PM"

var (
	ErrNotArmed             = errors.New("session is not armed")
	ErrScanInFlight         = errors.New("scan still being processed")
	ErrNotCooldown          = errors.New("session is not in cooldown")
	ErrNotPaused            = errors.New("session is not paused")
	ErrNotStarted           = errors.New("session has not started")
	ErrPermissionDenied     = errors.New("camera permission denied")
	ErrSymbologyDisabled    = errors.New("symbology not enabled by profile")
	ErrHistoryEmpty         = errors.New("history is empty")
	ErrEntryNotFound        = errors.New("history entry not found")
	ErrConfirmationNotFound = errors.New("confirmation not found")
)

// Enricher performs the optional product lookup for a scan.
type Enricher interface {
	Lookup(ctx context.Context, sym domain.Symbology, code string) string
}

// URLOpener is the external open-URL capability.
type URLOpener interface {
	CanOpenURL(ctx context.Context, target string) bool
	OpenURL(ctx context.Context, target string)
}

// Clipboard is the external copy-to-clipboard side effect.
type Clipboard interface {
	SetClipboard(ctx context.Context, text string)
}

// PermissionService acquires camera access.
type PermissionService interface {
	RequestCameraAccess(ctx context.Context) (bool, error)
}

// CaptureControl drives the capture source.
type CaptureControl interface {
	SetCaptureEnabled(ctx context.Context, enabled bool)
	SetTorch(ctx context.Context, on bool)
	SetZoom(ctx context.Context, level float64)
}

// Options wires the controller's collaborators.
type Options struct {
	History    *store.HistoryStore
	Enricher   Enricher
	Opener     URLOpener
	Clipboard  Clipboard
	Permission PermissionService
	Capture    CaptureControl
	Logger     logger.Logger
	TimeNow    func() time.Time // defaults to time.Now
}

// Controller is the scan session state machine. The armed gate guarantees
// at most one classification→enrichment→persist cycle is in flight.
type Controller struct {
	history    *store.HistoryStore
	enricher   Enricher
	opener     URLOpener
	clipboard  Clipboard
	permission PermissionService
	capture    CaptureControl
	logger     logger.Logger
	timeNow    func() time.Time

	mu         sync.Mutex
	state      State
	profile    *domain.Profile
	processing bool // an accepted event has not yet been persisted
	starting   bool // a Start permission request is in flight

	confirmations *confirmations
}

// New creates a controller in the idle state with the default profile.
func New(opts Options) *Controller {
	now := opts.TimeNow
	if now == nil {
		now = time.Now
	}
	return &Controller{
		history:       opts.History,
		enricher:      opts.Enricher,
		opener:        opts.Opener,
		clipboard:     opts.Clipboard,
		permission:    opts.Permission,
		capture:       opts.Capture,
		logger:        opts.Logger,
		timeNow:       now,
		state:         StateIdle,
		profile:       domain.DefaultProfile(),
		confirmations: newConfirmations(),
	}
}

// Start requests camera permission and loads the history. Denied permission
// keeps the controller idle; Start may be called again to retry. A failed
// history load degrades to an empty history, never to an error.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle || c.starting {
		c.mu.Unlock()
		return nil
	}
	c.starting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	granted, err := c.permission.RequestCameraAccess(ctx)
	if err != nil {
		c.logger.Warn("permission request failed, staying idle",
			logger.Error(err))
		return fmt.Errorf("failed to request camera access: %w", err)
	}
	if !granted {
		c.logger.Info("camera permission denied, staying idle")
		return ErrPermissionDenied
	}

	entries := c.history.Load(ctx)
	c.logger.Info("scan history loaded",
		logger.Int("entries", len(entries)))

	c.capture.SetCaptureEnabled(ctx, true)

	c.mu.Lock()
	c.state = StateArmed
	c.mu.Unlock()

	c.logger.Info("session armed")
	return nil
}

// HandleScan processes one raw event. Events arriving while not armed, or
// whose symbology the profile does not accept, are discarded without any
// state transition or history mutation.
func (c *Controller) HandleScan(ctx context.Context, ev domain.ScanEvent) (*domain.HistoryEntry, error) {
	c.mu.Lock()
	if !c.profile.Accepts(ev.Symbology) {
		c.mu.Unlock()
		return nil, ErrSymbologyDisabled
	}
	if c.state != StateArmed {
		c.mu.Unlock()
		return nil, ErrNotArmed
	}
	// Consume the gate before any suspension point: concurrent events now
	// see cooldown and are discarded, and re-arm stays locked out until
	// this event has been persisted.
	c.state = StateCooldown
	c.processing = true
	triggersLookup := c.profile.TriggersLookup(ev.Symbology)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	entry := domain.HistoryEntry{
		ID:         uuid.NewString(),
		Symbology:  ev.Symbology,
		Payload:    ev.Payload,
		CapturedAt: c.timeNow().Format(timestampLayout),
	}

	scan := domain.Classify(ev)
	if scan.IsLikelyURL {
		entry.Annotation = URLAnnotation
		if c.opener.CanOpenURL(ctx, scan.Payload) {
			entry.PayloadIsOpenableURL = true
			conf := c.confirmations.add(ConfirmOpenURL, scan.Payload)
			c.logger.Info("openable url scanned, confirmation pending",
				logger.String("confirmation_id", conf.ID),
				logger.String("url", scan.Payload))
		}
	}

	if triggersLookup {
		annotation := c.enricher.Lookup(ctx, ev.Symbology, ev.Payload)
		// The url hint was computed first and keeps display precedence.
		if entry.Annotation == "" {
			entry.Annotation = annotation
		}
	}

	c.history.Append(ctx, entry)

	c.logger.Info("scan recorded",
		logger.String("entry_id", entry.ID),
		logger.String("symbology", string(ev.Symbology)),
		logger.Bool("openable_url", entry.PayloadIsOpenableURL))

	return &entry, nil
}

// Rearm returns the session from cooldown to armed. There is no automatic
// timeout re-arm; this is always an explicit user trigger. Re-arm is
// refused until the event that took the session into cooldown has been
// persisted.
func (c *Controller) Rearm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCooldown {
		return ErrNotCooldown
	}
	if c.processing {
		return ErrScanInFlight
	}
	c.state = StateArmed
	return nil
}

// Pause suspends capture. An event already being processed runs to
// completion; only new events are blocked.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateIdle:
		c.mu.Unlock()
		return ErrNotStarted
	case StatePaused:
		c.mu.Unlock()
		return nil
	}
	c.state = StatePaused
	c.mu.Unlock()

	c.capture.SetCaptureEnabled(ctx, false)
	c.logger.Info("capture paused")
	return nil
}

// Resume re-enables capture and arms the session.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return ErrNotPaused
	}
	if c.processing {
		c.mu.Unlock()
		return ErrScanInFlight
	}
	c.state = StateArmed
	c.mu.Unlock()

	c.capture.SetCaptureEnabled(ctx, true)
	c.logger.Info("capture resumed, session armed")
	return nil
}

// RequestClearHistory raises the clear-history confirmation. Only available
// when there is something to clear.
func (c *Controller) RequestClearHistory() (Confirmation, error) {
	if c.history.Len() == 0 {
		return Confirmation{}, ErrHistoryEmpty
	}
	return c.confirmations.add(ConfirmClearHistory, ""), nil
}

// ResolveConfirmation consumes a pending confirmation. Accepting an
// open-url confirmation opens the URL; accepting clear-history wipes the
// store. A dismissal consumes the confirmation with no side effect.
func (c *Controller) ResolveConfirmation(ctx context.Context, id string, accepted bool) error {
	conf, ok := c.confirmations.take(id)
	if !ok {
		return ErrConfirmationNotFound
	}
	if !accepted {
		c.logger.Debug("confirmation dismissed",
			logger.String("kind", string(conf.Kind)))
		return nil
	}

	switch conf.Kind {
	case ConfirmOpenURL:
		c.opener.OpenURL(ctx, conf.Payload)
		c.logger.Info("opening url",
			logger.String("url", conf.Payload))
	case ConfirmClearHistory:
		if err := c.history.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		c.logger.Info("scan history cleared")
	}
	return nil
}

// PendingConfirmations lists unresolved confirmations.
func (c *Controller) PendingConfirmations() []Confirmation {
	return c.confirmations.list()
}

// CopyEntry copies a history entry's payload to the device clipboard.
func (c *Controller) CopyEntry(ctx context.Context, id string) error {
	for _, entry := range c.history.Entries() {
		if entry.ID == id {
			c.clipboard.SetClipboard(ctx, entry.Payload)
			return nil
		}
	}
	return ErrEntryNotFound
}

// SetTorch forwards the torch toggle to the capture source.
func (c *Controller) SetTorch(ctx context.Context, on bool) {
	c.capture.SetTorch(ctx, on)
}

// SetZoom forwards a zoom level to the capture source, clamped to [0, 1].
func (c *Controller) SetZoom(ctx context.Context, level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	c.capture.SetZoom(ctx, level)
}

// ApplyProfile swaps the scanner profile and pushes its capture defaults.
func (c *Controller) ApplyProfile(ctx context.Context, p *domain.Profile) {
	c.mu.Lock()
	c.profile = p
	c.mu.Unlock()

	c.capture.SetZoom(ctx, p.Zoom)
	c.capture.SetTorch(ctx, p.Torch)
	c.logger.Info("scanner profile applied",
		logger.Int("symbologies", len(p.Symbologies)),
		logger.Int("lookup_triggers", len(p.LookupTriggers)),
		logger.Float64("zoom", p.Zoom))
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a read-only snapshot of the scan history.
func (c *Controller) History() []domain.HistoryEntry {
	return c.history.Entries()
}
