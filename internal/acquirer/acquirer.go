// Package acquirer materializes a local working copy of a scan target,
// either by borrowing an existing local directory or by shallow-cloning a
// remote repository into a fresh temporary directory.
package acquirer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/pqcshield/scanner/internal/logger"
	"go.uber.org/zap"
)

// CloneTimeout bounds how long a shallow clone is allowed to run before it
// is treated as a fatal acquisition error.
const CloneTimeout = 5 * time.Minute

// WorkingCopy is the tagged value the Acquirer hands to every later stage:
// a path plus whether the job reporter is responsible for deleting it.
type WorkingCopy struct {
	Path  string
	Owned bool
}

// Cleanup removes the working copy if it is owned by the acquirer. It is
// always safe to call, including on a borrowed copy (a no-op) or a zero
// value.
func (w WorkingCopy) Cleanup() {
	if !w.Owned || w.Path == "" {
		return
	}
	if err := os.RemoveAll(w.Path); err != nil {
		logger.Get().Warn("failed to remove owned working copy", zap.String("path", w.Path), zap.Error(err))
	}
}

// Acquire resolves target into a WorkingCopy. target may be an absolute or
// relative local path, a file:// URI, or a remote Git URL.
func Acquire(ctx context.Context, target string) (WorkingCopy, error) {
	if localPath, ok := asLocalPath(target); ok {
		abs, err := filepath.Abs(localPath)
		if err != nil {
			return WorkingCopy{}, fmt.Errorf("resolving local path %q: %w", target, err)
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			return WorkingCopy{Path: abs, Owned: false}, nil
		}
	}

	tempDir, err := os.MkdirTemp("", "pqcscan-*")
	if err != nil {
		return WorkingCopy{}, fmt.Errorf("creating temp directory: %w", err)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, CloneTimeout)
	defer cancel()

	_, err = git.PlainCloneContext(cloneCtx, tempDir, false, &git.CloneOptions{
		URL:   target,
		Depth: 1,
	})
	if err != nil {
		os.RemoveAll(tempDir)
		if cloneCtx.Err() != nil {
			return WorkingCopy{}, fmt.Errorf("clone of %q timed out after %s: %w", target, CloneTimeout, err)
		}
		return WorkingCopy{}, fmt.Errorf("clone of %q failed: %w", target, err)
	}

	return WorkingCopy{Path: tempDir, Owned: true}, nil
}

// asLocalPath reports whether target should be treated as a local
// filesystem path (an absolute/relative path or a file:// URI) rather than
// a remote Git URL, along with the resolved filesystem path.
func asLocalPath(target string) (string, bool) {
	if strings.HasPrefix(target, "file://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(target, "://") {
		return "", false
	}
	// A git@host:path style SCP address is remote, not local.
	if strings.Contains(target, "@") && strings.Contains(target, ":") {
		return "", false
	}
	return target, true
}
