package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
)

// DefaultOutputPath derives the output filename used when the caller asked
// for an output file without naming one.
func DefaultOutputPath(now time.Time) string {
	return fmt.Sprintf("project_ids_%d.txt", now.Unix())
}

// WriteProjectIDs persists the ids to path, one per line, newline-terminated,
// overwriting any existing file. An empty path derives a timestamped default.
// Returns the path actually written.
func WriteProjectIDs(projectIDs []string, path string) (string, error) {
	if path == "" {
		path = DefaultOutputPath(time.Now())
	}

	var b strings.Builder
	for _, id := range projectIDs {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", ierr.WithError(err).
			WithHintf("could not write project IDs to %s", path).
			Mark(ierr.ErrSystem)
	}

	return path, nil
}
