package pipeline

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

// LockFilename is the advisory lock held in the processed directory while a
// run writes there.
const LockFilename = ".latin-corpus.lock"

// ErrLocked is returned when another run holds the output directory.
var ErrLocked = eris.New("pipeline: output directory is locked by another run")

// lockDir creates dir if needed and takes its advisory lock without
// blocking. The caller must Unlock the returned lock.
func lockDir(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "pipeline: create output dir")
	}

	lock := flock.New(filepath.Join(dir, LockFilename))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: acquire lock")
	}
	if !ok {
		return nil, eris.Wrapf(ErrLocked, "pipeline: lock %s", lock.Path())
	}
	return lock, nil
}
