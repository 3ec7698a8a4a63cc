// Package switcher swaps the host application's live credentials between
// managed accounts while keeping each account's backups current.
//
// An operation touches up to three stores with no transaction spanning
// them: the credential store, the host config mirror and the ledger. The
// ledger is always written last, so a failure part way leaves the ledger
// describing the state before the operation and the next call's
// preconditions catch any drift.
package switcher

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/benaskins/ccswitch/internal/audit"
	"github.com/benaskins/ccswitch/internal/config"
	"github.com/benaskins/ccswitch/internal/credential"
	"github.com/benaskins/ccswitch/internal/hostconfig"
	"github.com/benaskins/ccswitch/internal/ledger"
)

// Engine runs account operations. Every call loads the ledger afresh;
// nothing is cached between calls.
type Engine struct {
	paths     config.Paths
	store     credential.Store
	host      *hostconfig.Store
	audit     *audit.Logger
	logger    *slog.Logger
	now       func() time.Time
	lookupEnv func(string) (string, bool)
	newOpID   func() string
	actor     string
}

// Option configures the engine.
type Option func(*Engine)

// WithHostConfig replaces the host config mirror.
func WithHostConfig(h *hostconfig.Store) Option {
	return func(e *Engine) {
		e.host = h
	}
}

// WithAudit records account operations to l.
func WithAudit(l *audit.Logger) Option {
	return func(e *Engine) {
		e.audit = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the time source for ledger timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithEnv sets the environment lookup used for token-mode detection.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(e *Engine) {
		e.lookupEnv = lookup
	}
}

// WithActor names the front-end in audit entries ("cli", "tui").
func WithActor(actor string) Option {
	return func(e *Engine) {
		e.actor = actor
	}
}

// NewEngine returns an engine over paths and store.
func NewEngine(paths config.Paths, store credential.Store, opts ...Option) *Engine {
	e := &Engine{
		paths:     paths,
		store:     store,
		logger:    slog.With("component", "switcher"),
		now:       time.Now,
		lookupEnv: os.LookupEnv,
		newOpID:   uuid.NewString,
		actor:     "cli",
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.host == nil {
		e.host = hostconfig.New(paths, e.logger)
	}
	return e
}

// opScoped is implemented by stores that tag accesses with an operation id.
type opScoped interface {
	WithOp(opID string) credential.Store
}

// begin starts an operation: a fresh op id and the store scoped to it.
func (e *Engine) begin() (string, credential.Store) {
	op := e.newOpID()
	if s, ok := e.store.(opScoped); ok {
		return op, s.WithOp(op)
	}
	return op, e.store
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Second)
}

func (e *Engine) loadLedger() (*ledger.Ledger, error) {
	return ledger.Load(e.paths.Ledger())
}

func (e *Engine) saveLedger(l *ledger.Ledger) error {
	l.LastUpdated = e.timestamp()
	return ledger.Save(e.paths.Ledger(), l)
}

// record writes an account-level audit entry. Failures only warn.
func (e *Engine) record(entry audit.Entry, opErr error) {
	entry.Actor = e.actor
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if err := e.audit.Log(entry); err != nil {
		e.logger.Warn("audit write failed", "action", entry.Action, "error", err)
	}
}
