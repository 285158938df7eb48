// Package sources mirrors remote catalogue and translation-series exports
// into the raw data directory.
package sources

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/latin-corpus/internal/fetcher"
)

// StateFilename records the validator of every mirrored export.
const StateFilename = ".sources.yaml"

// Source is one remote export.
type Source struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
	// Filename is the name written under the raw directory. Empty derives
	// it from the URL, dropping a .zip suffix.
	Filename string `yaml:"filename" mapstructure:"filename"`
	// Member selects a file inside a ZIP archive.
	Member string `yaml:"member" mapstructure:"member"`
}

// Entry is the stored state for one source.
type Entry struct {
	URL       string    `yaml:"url"`
	Version   string    `yaml:"version,omitempty"`
	Path      string    `yaml:"path"`
	Bytes     int64     `yaml:"bytes"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// Result reports what Sync did for one source.
type Result struct {
	Name    string
	Path    string
	Changed bool
	Bytes   int64
}

// Syncer downloads sources into RawDir.
type Syncer struct {
	RawDir  string
	Remotes map[string]fetcher.Remote // keyed by URL scheme
	Workers int
	now     func() time.Time
}

// NewSyncer returns a Syncer with HTTP(S) and FTP remotes.
func NewSyncer(rawDir string, workers int) *Syncer {
	h := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	return &Syncer{
		RawDir: rawDir,
		Remotes: map[string]fetcher.Remote{
			"http":  h,
			"https": h,
			"ftp":   fetcher.NewFTPFetcher(0),
		},
		Workers: workers,
		now:     time.Now,
	}
}

// LocalName returns the file name a source is written to.
func (s Source) LocalName() (string, error) {
	if s.Filename != "" {
		return s.Filename, nil
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", eris.Wrapf(err, "sources: parse url for %s", s.Name)
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "", eris.Errorf("sources: cannot derive filename for %s from %q", s.Name, s.URL)
	}
	if strings.EqualFold(path.Ext(base), ".zip") {
		base = strings.TrimSuffix(base, path.Ext(base)) + ".csv"
	}
	return base, nil
}

// Sync fetches every source concurrently and updates the state file. One
// failing source aborts the sync; state for completed sources is kept.
func (s *Syncer) Sync(ctx context.Context, list []Source) ([]Result, error) {
	if err := os.MkdirAll(s.RawDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "sources: create raw dir")
	}
	state, err := LoadState(filepath.Join(s.RawDir, StateFilename))
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make([]Result, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for i, src := range list {
		g.Go(func() error {
			mu.Lock()
			prev := state[src.Name]
			mu.Unlock()

			res, entry, err := s.syncOne(gctx, src, prev)
			if err != nil {
				return err
			}
			results[i] = res

			mu.Lock()
			state[src.Name] = entry
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	if serr := SaveState(filepath.Join(s.RawDir, StateFilename), state); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Syncer) syncOne(ctx context.Context, src Source, prev Entry) (Result, Entry, error) {
	log := zap.L().With(zap.String("component", "sources"), zap.String("source", src.Name))

	name, err := src.LocalName()
	if err != nil {
		return Result{}, prev, err
	}
	dest := filepath.Join(s.RawDir, name)

	u, err := url.Parse(src.URL)
	if err != nil {
		return Result{}, prev, eris.Wrapf(err, "sources: parse url for %s", src.Name)
	}
	remote, ok := s.Remotes[strings.ToLower(u.Scheme)]
	if !ok {
		return Result{}, prev, eris.Errorf("sources: unsupported scheme %q for %s", u.Scheme, src.Name)
	}

	version := ""
	if prev.URL == src.URL && fileExists(dest) {
		version = prev.Version
	}
	body, newVersion, changed, err := remote.Fetch(ctx, src.URL, version)
	if err != nil {
		return Result{}, prev, eris.Wrapf(err, "sources: fetch %s", src.Name)
	}
	if !changed {
		log.Info("export unchanged", zap.String("path", dest))
		return Result{Name: src.Name, Path: dest, Bytes: prev.Bytes}, prev, nil
	}
	defer body.Close() //nolint:errcheck

	n, err := s.store(body, src, u, dest)
	if err != nil {
		return Result{}, prev, err
	}
	log.Info("mirrored export", zap.String("path", dest), zap.Int64("bytes", n))

	entry := Entry{URL: src.URL, Version: newVersion, Path: dest, Bytes: n, FetchedAt: s.now().UTC()}
	return Result{Name: src.Name, Path: dest, Changed: true, Bytes: n}, entry, nil
}

// store writes body to dest through a temp file, extracting ZIP archives.
func (s *Syncer) store(body io.Reader, src Source, u *url.URL, dest string) (int64, error) {
	tmp, err := os.CreateTemp(s.RawDir, ".download-*")
	if err != nil {
		return 0, eris.Wrap(err, "sources: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, eris.Wrapf(err, "sources: download %s", src.Name)
	}

	if strings.EqualFold(path.Ext(u.Path), ".zip") || src.Member != "" {
		if _, err := fetcher.ExtractMember(tmp.Name(), src.Member, dest); err != nil {
			return 0, eris.Wrapf(err, "sources: extract %s", src.Name)
		}
		info, err := os.Stat(dest)
		if err != nil {
			return 0, eris.Wrap(err, "sources: stat extracted file")
		}
		return info.Size(), nil
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, eris.Wrap(err, "sources: chmod")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, eris.Wrap(err, "sources: rename into place")
	}
	return n, nil
}

// LoadState reads the state file; a missing file is an empty state.
func LoadState(p string) (map[string]Entry, error) {
	state := make(map[string]Entry)
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sources: read state")
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, eris.Wrap(err, "sources: parse state")
	}
	if state == nil {
		state = make(map[string]Entry)
	}
	return state, nil
}

// SaveState writes the state file. Sources are written in name order.
func SaveState(p string, state map[string]Entry) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "sources: marshal state")
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return eris.Wrap(err, "sources: write state")
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
