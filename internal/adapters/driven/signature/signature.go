// Package signature reads the user's Outlook signature files so the
// auto-reply bodies can carry the same sign-off as regular mail.
package signature

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.SignatureProvider = (*Provider)(nil)

// Provider reads signature HTML from a directory of Outlook signature files.
type Provider struct {
	dir string
}

// New creates a provider over the given signature directory. An empty dir
// uses the Outlook default under the user's roaming profile.
func New(dir string) *Provider {
	if dir == "" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			dir = filepath.Join(appData, "Microsoft", "Signatures")
		} else if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".oof", "signatures")
		}
	}
	return &Provider{dir: dir}
}

// DefaultSignatureHTML returns the first signature alphabetically, or the
// empty string when none can be read. The caller treats a missing signature
// as "no signature", never as an error.
func (p *Provider) DefaultSignatureHTML() string {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		logger.Debugf("signature: read dir failed: %v", err)
		return ""
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".htm" || ext == ".html" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	content, err := os.ReadFile(filepath.Join(p.dir, names[0]))
	if err != nil {
		logger.Debugf("signature: read file failed: %v", err)
		return ""
	}
	return string(content)
}
