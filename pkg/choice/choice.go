// Package choice implements a bounded single-selection exchange: present N
// options as an inline keyboard, accept exactly one selection, expire after
// a timeout. Requests are keyed by a generated id carried in the callback
// data, so stale keyboards from earlier exchanges resolve to nothing instead
// of acting on the wrong request.
package choice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
)

var (
	ErrTimeout             = errors.New("selection timed out")
	ErrInvalidCallbackData = errors.New("invalid callback data")
)

// CallbackUnique is the callback unique all selection buttons share.
const CallbackUnique = "choice_select"

// Option is one selectable entry.
type Option struct {
	Label string
	Value string
}

type pendingRequest struct {
	mu        sync.Mutex
	value     string
	completed bool
}

// Manager tracks open selection requests.
type Manager struct {
	requests sync.Map
	timeout  time.Duration
}

type Options struct {
	// Timeout for a selection request (default: 2 minutes).
	Timeout time.Duration
}

// NewManager creates a new selection manager
func NewManager(opts Options) *Manager {
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Manager{
		timeout: opts.Timeout,
	}
}

// NewRequest opens a selection request and returns its id.
func (m *Manager) NewRequest() string {
	requestID := uuid.New().String()
	m.requests.Store(requestID, &pendingRequest{})
	return requestID
}

// Markup builds the inline keyboard for a request, one option per row.
func (m *Manager) Markup(requestID string, options []Option) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(options))
	for _, option := range options {
		rows = append(rows, markup.Row(markup.Data(option.Label, CallbackUnique, requestID, option.Value)))
	}
	markup.Inline(rows...)
	return markup
}

// Handler returns the callback handler to register for CallbackUnique.
// Selections for requests that are already resolved or expired are
// acknowledged and otherwise ignored.
func (m *Manager) Handler() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		parts := strings.Split(c.Callback().Data, "|")
		if len(parts) != 2 {
			return ErrInvalidCallbackData
		}
		m.Resolve(parts[0], parts[1])
		return c.Respond(&tele.CallbackResponse{})
	}
}

// Cancel discards a request that will never be awaited, for example when
// sending its keyboard failed. Canceling an unknown or already-closed
// request is a no-op.
func (m *Manager) Cancel(requestID string) {
	m.requests.Delete(requestID)
}

// Resolve records the selection for a request. Only the first resolution
// counts; later ones report false.
func (m *Manager) Resolve(requestID, value string) bool {
	loaded, ok := m.requests.Load(requestID)
	if !ok {
		return false
	}
	req := loaded.(*pendingRequest)

	req.mu.Lock()
	defer req.mu.Unlock()
	if req.completed {
		return false
	}
	req.value = value
	req.completed = true
	return true
}

// Await blocks until the request resolves to one selection or times out.
// Either way the request is closed afterwards and further input for it is
// ignored.
func (m *Manager) Await(ctx context.Context, requestID string) (string, error) {
	loaded, ok := m.requests.Load(requestID)
	if !ok {
		return "", ErrTimeout
	}
	req := loaded.(*pendingRequest)

	defer m.requests.Delete(requestID)

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			req.mu.Lock()
			if req.completed {
				value := req.value
				req.mu.Unlock()
				return value, nil
			}
			req.mu.Unlock()

			if time.Since(start) > m.timeout {
				return "", ErrTimeout
			}

			// Small sleep to prevent CPU spinning
			time.Sleep(100 * time.Millisecond)
		}
	}
}
