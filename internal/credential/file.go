package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/atomicfile"
	"github.com/benaskins/ccswitch/internal/config"
)

// FileStore keeps each secret in its own owner-only file. The live
// credential is the host application's credentials file.
type FileStore struct {
	paths config.Paths
}

// NewFileStore creates a file-backed store rooted at paths.
func NewFileStore(paths config.Paths) *FileStore {
	return &FileStore{paths: paths}
}

// Path returns the file that holds svc.
func (s *FileStore) Path(svc Service) string {
	switch svc.Kind {
	case KindLive:
		return s.paths.HostCredentials()
	case KindActiveToken:
		return s.paths.ActiveTokenFile()
	}
	name := fmt.Sprintf(".claude-credentials-%d-%s.json", svc.Slot, safeLabel(svc.Label))
	return filepath.Join(s.paths.CredentialBackups(), name)
}

func (s *FileStore) Read(svc Service) (string, error) {
	path := s.Path(svc)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", notFound(svc)
		}
		return "", apperr.Wrap(apperr.KindIO, "read credential", path, err)
	}
	return string(data), nil
}

func (s *FileStore) Write(svc Service, blob string) error {
	path := s.Path(svc)
	if err := atomicfile.WritePrivate(path, []byte(blob)); err != nil {
		return apperr.Wrap(apperr.KindIO, "write credential", svc.String(), err)
	}
	return nil
}

func (s *FileStore) Delete(svc Service) error {
	if err := atomicfile.Remove(s.Path(svc)); err != nil {
		return apperr.Wrap(apperr.KindIO, "delete credential", svc.String(), err)
	}
	return nil
}

// TokenExport is the shell expression that prints the active token.
func (s *FileStore) TokenExport() string {
	return fmt.Sprintf("cat %q 2>/dev/null", s.paths.ActiveTokenFile())
}
