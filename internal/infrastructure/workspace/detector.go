package workspace

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// conventionalPrefixes are the monorepo folders searched for an application, in order
var conventionalPrefixes = []string{"packages", "apps", ""}

// Detector locates the directory of an application inside a monorepo
type Detector struct {
	fs afero.Fs
}

// NewDetector creates a detector over fs
func NewDetector(fs afero.Fs) *Detector {
	return &Detector{fs: fs}
}

// Detect returns the first existing directory among {root}/packages/{name},
// {root}/apps/{name} and {root}/{name}. Scoped names ("scope/pkg") are joined
// segment by segment.
func (d *Detector) Detect(app, root string) (string, bool) {
	segments := []string{app}
	if parts := strings.Split(app, "/"); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		segments = parts
	}

	for _, prefix := range conventionalPrefixes {
		elems := append([]string{root, prefix}, segments...)
		candidate := filepath.Join(elems...)
		if ok, _ := afero.DirExists(d.fs, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}
