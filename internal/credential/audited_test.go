package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benaskins/ccswitch/internal/audit"
)

func setupAuditedStore(t *testing.T) (*AuditedStore, string) {
	t.Helper()
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")

	auditLog, err := audit.NewLogger(auditPath)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { auditLog.Close() })

	store := NewAuditedStore(NewMemoryStore(), auditLog, "cli", nil)
	return store, auditPath
}

func readAuditEntries(t *testing.T, path string) []audit.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	entries := make([]audit.Entry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		var e audit.Entry
		json.Unmarshal([]byte(line), &e)
		entries = append(entries, e)
	}
	return entries
}

func TestAuditedStoreWriteLogsWrite(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	store.Write(Backup(1, "alice@x.com"), "value")

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != audit.ActionSecretWrite {
		t.Errorf("expected secret_write, got %v", entries[0].Action)
	}
	if entries[0].Key != "Claude Code-Account-1-alice@x.com" {
		t.Errorf("unexpected key %q", entries[0].Key)
	}
	if entries[0].Slot != 1 {
		t.Errorf("expected slot 1, got %d", entries[0].Slot)
	}
	if entries[0].Actor != "cli" {
		t.Errorf("expected cli, got %q", entries[0].Actor)
	}
}

func TestAuditedStoreReadLogsRead(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	store.Write(Live(), "val")
	store.Read(Live())

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Action != audit.ActionSecretRead {
		t.Errorf("expected secret_read, got %v", entries[1].Action)
	}
}

func TestAuditedStoreFailedReadNotLogged(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	if _, err := store.Read(Backup(3, "missing")); err == nil {
		t.Fatal("expected error")
	}
	store.Write(Live(), "x")

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 1 {
		t.Fatalf("expected only the write to be logged, got %d entries", len(entries))
	}
}

func TestAuditedStoreDeleteLogsDelete(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	store.Write(ActiveToken(), "val")
	store.Delete(ActiveToken())

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Action != audit.ActionSecretDelete {
		t.Errorf("expected secret_delete, got %v", entries[1].Action)
	}
}

func TestAuditedStoreWithOp(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	scoped := store.WithOp("op-123")
	scoped.Write(Live(), "x")
	store.Write(Live(), "y")

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].OpID != "op-123" {
		t.Errorf("expected op-123, got %q", entries[0].OpID)
	}
	if entries[1].OpID != "" {
		t.Errorf("parent store should not carry op id, got %q", entries[1].OpID)
	}
}

func TestAuditedStoreNeverLogsSecret(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	store.Write(Backup(1, "a"), "sk-ant-super-secret")

	data, _ := os.ReadFile(auditPath)
	if strings.Contains(string(data), "sk-ant-super-secret") {
		t.Error("secret value leaked into audit log")
	}
}
