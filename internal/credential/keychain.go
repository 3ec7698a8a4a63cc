package credential

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/benaskins/ccswitch/internal/apperr"
)

// errSecItemNotFound is the exit status security(1) uses for a missing item.
const errSecItemNotFound = 44

// KeychainStore keeps secrets as generic passwords in the login Keychain by
// running security(1). The host application reads its live credential from
// the same Keychain, so the utility is used rather than the Security
// framework to match what the host wrote.
type KeychainStore struct {
	binary  string
	account string
}

// NewKeychainStore creates a Keychain-backed store that runs binary
// (normally "security").
func NewKeychainStore(binary string) *KeychainStore {
	if binary == "" {
		binary = "security"
	}
	return &KeychainStore{binary: binary, account: os.Getenv("USER")}
}

func (s *KeychainStore) Read(svc Service) (string, error) {
	name := ServiceName(svc)
	out, err := s.run("find-generic-password", "-s", name, "-w")
	if err != nil {
		if isItemNotFound(err) {
			return "", notFound(svc)
		}
		return "", apperr.Wrap(apperr.KindIO, "keychain read", name, err)
	}
	// security(1) terminates the password with a newline.
	return strings.TrimSuffix(out, "\n"), nil
}

func (s *KeychainStore) Write(svc Service, blob string) error {
	name := ServiceName(svc)
	if _, err := s.run("add-generic-password", "-U", "-s", name, "-a", s.account, "-w", blob); err != nil {
		return apperr.Wrap(apperr.KindIO, "keychain write", name, err)
	}
	return nil
}

func (s *KeychainStore) Delete(svc Service) error {
	name := ServiceName(svc)
	if _, err := s.run("delete-generic-password", "-s", name); err != nil && !isItemNotFound(err) {
		return apperr.Wrap(apperr.KindIO, "keychain delete", name, err)
	}
	return nil
}

// TokenExport is the shell expression that prints the active token.
func (s *KeychainStore) TokenExport() string {
	return fmt.Sprintf("%s find-generic-password -s %q -w 2>/dev/null", s.binary, ActiveTokenServiceName)
}

// exitError is what run returns when the utility exits non-zero.
type exitError struct {
	command string
	code    int
	stderr  string
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%s: exit code %d: %s", e.command, e.code, e.stderr)
}

func isItemNotFound(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) && ee.code == errSecItemNotFound
}

// run executes the utility with args and returns stdout. The command string
// in errors names the subcommand only; args may carry secret material.
func (s *KeychainStore) run(args ...string) (string, error) {
	cmd := exec.Command(s.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		command := s.binary + " " + args[0]
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return "", &exitError{command: command, code: ee.ExitCode(), stderr: strings.TrimSpace(stderr.String())}
		}
		return "", fmt.Errorf("running %s: %w", command, err)
	}
	return stdout.String(), nil
}
