// Package file persists the last-used recipient lists as a JSON document.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure MailingListStore implements the interface.
var _ driven.MailingListStore = (*MailingListStore)(nil)

// MailingListStore reads and writes the mailing-list record at a fixed path.
// Writes go through a temp file and rename so a crash never leaves a
// truncated record behind.
type MailingListStore struct {
	path string
}

// NewMailingListStore creates a store backed by the given file path.
func NewMailingListStore(path string) *MailingListStore {
	return &MailingListStore{path: path}
}

// Load returns the stored recipient lists. Any failure, including a missing
// or corrupt file, yields empty lists; the form simply starts blank.
func (s *MailingListStore) Load() domain.MailingList {
	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.Debugf("mailing list read failed: %v", err)
		return domain.MailingList{}
	}

	var list domain.MailingList
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Debugf("mailing list decode failed: %v", err)
		return domain.MailingList{}
	}
	return list
}

// Save replaces the stored record with the given lists.
func (s *MailingListStore) Save(to, cc []string) error {
	list := domain.MailingList{
		To:        to,
		Cc:        cc,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mailing list: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write mailing list: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace mailing list: %w", err)
	}
	return nil
}
