package tcgcsv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"

	"github.com/bodgit/sevenzip"
	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/logger"
)

// Archive is the opened price archive of one day.
type Archive struct {
	Day   tracker.Date
	fsys  fs.FS
	close func() error
}

// NewArchive wraps a file system laid out like an extracted archive.
func NewArchive(day tracker.Date, fsys fs.FS) *Archive {
	return &Archive{Day: day, fsys: fsys, close: func() error { return nil }}
}

// OpenArchive opens a downloaded archive.
//
// Archives are read in-process when their codec is supported. The daily
// archives are PPMd compressed, which needs the 7z command: the archive is then
// extracted to a temporary directory removed on Close.
func OpenArchive(ctx context.Context, name string, day tracker.Date) (*Archive, error) {
	r, err := sevenzip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive %s: %w", name, err)
	}
	err = probe(r)
	if err == nil {
		return &Archive{Day: day, fsys: r, close: r.Close}, nil
	}
	log := logger.FromContext(ctx)
	log.Debug().Err(err).Str("archive", name).Msg("extracting with 7z")
	r.Close()
	return extract(ctx, name, day)
}

// probe opens the first file of the archive to check that its codec is
// supported.
func probe(r *sevenzip.ReadCloser) error {
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		return rc.Close()
	}
	return nil
}

// extract runs the 7z command into a temporary directory.
func extract(ctx context.Context, name string, day tracker.Date) (*Archive, error) {
	dir, err := os.MkdirTemp("", "tcgcsv-"+day.String()+"-*")
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, "7z", "x", name, "-o"+dir, "-y")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("cannot extract %s with 7z: %w\n%s", name, err, out)
	}
	return &Archive{Day: day, fsys: os.DirFS(dir), close: func() error { return os.RemoveAll(dir) }}, nil
}

// Close releases the archive.
func (a *Archive) Close() error { return a.close() }

// Prices returns the market prices of a group, by product. A group absent from
// the archive, or listed without results, has no prices.
func (a *Archive) Prices(category, group tracker.ID) (map[tracker.ID]tracker.Money, error) {
	// depending on how the archive was built, entries may be nested in a
	// folder named after the day.
	candidates := []string{
		path.Join(a.Day.String(), string(category), string(group), "prices"),
		path.Join(string(category), string(group), "prices"),
	}
	for _, name := range candidates {
		data, err := fs.ReadFile(a.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", name, err)
		}
		prices, err := ParsePrices(data)
		if errors.Is(err, ErrNoResults) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return prices, nil
	}
	return nil, nil
}
