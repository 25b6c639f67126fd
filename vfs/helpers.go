package vfs

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	} else {
		if r, err := f.Reader(); err != nil {
			defer f.Close()
			return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
		} else {
			return r, err
		}
	}
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	} else if f.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}

// HasExtension compares the extension of name with ext ignoring case.
func HasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

// WalkFunc is called for every file found by Walk.
type WalkFunc func(f File) error

// Walk calls fn for the files of d in name order, descending into
// subdirectories when recursive is set. The first error returned by fn stops the walk.
func Walk(d Directory, recursive bool, fn WalkFunc) error {
	names, err := d.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		e, err := d.GetElement(name)
		if err != nil {
			// vanished or unreadable entries are skipped
			continue
		}
		if e.IsDirectory() {
			if recursive {
				if err := Walk(e.(Directory), recursive, fn); err != nil {
					return err
				}
			}
			continue
		}
		if err := fn(e.(File)); err != nil {
			return err
		}
	}
	return nil
}

// ListFiles returns the names of the files in d with extension ext.
func ListFiles(d Directory, ext string) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if !HasExtension(name, ext) {
			continue
		}
		if e, err := d.GetElement(name); err == nil && !e.IsDirectory() {
			result = append(result, name)
		}
	}
	return result, nil
}
