package credential

import (
	"fmt"
	"log/slog"

	"github.com/benaskins/ccswitch/internal/audit"
)

// AuditedStore wraps a Store and records every access to the audit log.
type AuditedStore struct {
	inner  Store
	audit  *audit.Logger
	logger *slog.Logger
	actor  string // "cli" or "tui"
	opID   string
}

// NewAuditedStore wraps an existing store with audit logging.
func NewAuditedStore(inner Store, auditLog *audit.Logger, actor string, logger *slog.Logger) *AuditedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedStore{
		inner:  inner,
		audit:  auditLog,
		logger: logger,
		actor:  actor,
	}
}

// WithOp returns a copy whose entries carry opID, so every secret touched by
// one engine operation can be correlated.
func (s *AuditedStore) WithOp(opID string) Store {
	cp := *s
	cp.opID = opID
	return &cp
}

func (s *AuditedStore) Read(svc Service) (string, error) {
	val, err := s.inner.Read(svc)
	if err != nil {
		return "", fmt.Errorf("audited store read: %w", err)
	}
	s.log(audit.ActionSecretRead, svc)
	return val, nil
}

func (s *AuditedStore) Write(svc Service, blob string) error {
	if err := s.inner.Write(svc, blob); err != nil {
		return fmt.Errorf("audited store write: %w", err)
	}
	s.log(audit.ActionSecretWrite, svc)
	return nil
}

func (s *AuditedStore) Delete(svc Service) error {
	if err := s.inner.Delete(svc); err != nil {
		return fmt.Errorf("audited store delete: %w", err)
	}
	s.log(audit.ActionSecretDelete, svc)
	return nil
}

// TokenExport forwards to the wrapped store.
func (s *AuditedStore) TokenExport() string {
	if te, ok := s.inner.(TokenExporter); ok {
		return te.TokenExport()
	}
	return ""
}

// Audit logging is best-effort; a failure to log never blocks the operation.
func (s *AuditedStore) log(action audit.Action, svc Service) {
	err := s.audit.Log(audit.Entry{
		Action: action,
		OpID:   s.opID,
		Key:    ServiceName(svc),
		Slot:   svc.Slot,
		Actor:  s.actor,
	})
	if err != nil {
		s.logger.Warn("audit write failed", "action", action, "error", err)
	}
}
