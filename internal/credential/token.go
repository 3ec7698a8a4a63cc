package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/benaskins/ccswitch/internal/atomicfile"
)

// TokenEnvVar is the variable the host reads a static token from. Setting it
// also forces token mode when adding an account.
const TokenEnvVar = "CLAUDE_CODE_OAUTH_TOKEN"

// ErrNoToken is returned when a backup does not hold a token envelope.
var ErrNoToken = errors.New("credential backup holds no token")

type tokenEnvelope struct {
	Token string `json:"token"`
}

// WrapToken stores a static token in the envelope kept as its backup.
func WrapToken(token string) (string, error) {
	data, err := json.Marshal(tokenEnvelope{Token: token})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnwrapToken extracts the token from a backup written by WrapToken.
func UnwrapToken(blob string) (string, error) {
	var env tokenEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return "", fmt.Errorf("%w: invalid JSON: %v", ErrNoToken, err)
	}
	if env.Token == "" {
		return "", ErrNoToken
	}
	return env.Token, nil
}

// TokenExporter is implemented by stores that can print the active token
// from a shell.
type TokenExporter interface {
	TokenExport() string
}

// RCContent is the shell snippet that exports the active token.
func RCContent(exportCmd string) string {
	var b strings.Builder
	b.WriteString("# Written by ccswitch. Exports the token of the active account.\n")
	fmt.Fprintf(&b, "__ccswitch_token=\"$(%s)\"\n", exportCmd)
	b.WriteString("if [ -n \"$__ccswitch_token\" ]; then\n")
	fmt.Fprintf(&b, "  export %s=\"$__ccswitch_token\"\n", TokenEnvVar)
	b.WriteString("fi\n")
	b.WriteString("unset __ccswitch_token\n")
	return b.String()
}

// EnsureRCFile writes the rc file at path unless it already exists. It
// reports whether the file was created. An existing file is never touched.
func EnsureRCFile(path string, store Store) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	te, ok := store.(TokenExporter)
	if !ok || te.TokenExport() == "" {
		return false, fmt.Errorf("store %T cannot export the active token", store)
	}
	if err := atomicfile.WritePrivate(path, []byte(RCContent(te.TokenExport()))); err != nil {
		return false, err
	}
	return true, nil
}
