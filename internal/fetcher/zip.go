package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// tableExts are the archive members LoadTable can read.
var tableExts = map[string]bool{
	".csv": true, ".tsv": true, ".xlsx": true, ".json": true, ".xml": true,
}

// ExtractMember copies one member of a ZIP archive to dest through a temp
// file, so dest is either replaced whole or left as it was. When member is
// empty the archive must hold exactly one readable table file. Members are
// matched by full name or base name.
func ExtractMember(zipPath, member, dest string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	f, err := pickMember(r.File, member)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", eris.Wrap(err, "zip: create parent directory")
	}
	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open member")
	}
	defer rc.Close() //nolint:errcheck

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return "", eris.Wrap(err, "zip: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close() //nolint:errcheck
		return "", eris.Wrap(err, "zip: write file")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "zip: close file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", eris.Wrap(err, "zip: chmod file")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", eris.Wrap(err, "zip: rename file")
	}
	return f.Name, nil
}

func pickMember(files []*zip.File, member string) (*zip.File, error) {
	if member != "" {
		for _, f := range files {
			if f.Name == member || path.Base(f.Name) == member {
				return f, nil
			}
		}
		return nil, eris.Errorf("zip: member %q not found", member)
	}

	var tables []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || strings.HasPrefix(path.Base(f.Name), ".") {
			continue
		}
		if tableExts[strings.ToLower(path.Ext(f.Name))] {
			tables = append(tables, f)
		}
	}
	if len(tables) != 1 {
		return nil, eris.Errorf("zip: expected exactly 1 table file, got %d", len(tables))
	}
	return tables[0], nil
}
