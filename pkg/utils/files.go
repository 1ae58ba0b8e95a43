package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield the first cartridge image they contain, or
// the first file if no member has a .gb extension.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		names := make([]string, len(zr.File))
		for i, f := range zr.File {
			names[i] = f.Name
		}
		i, err := pickMember(names)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return readMember(zr.File[i].Open)
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		names := make([]string, len(sr.File))
		for i, f := range sr.File {
			names[i] = f.Name
		}
		i, err := pickMember(names)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return readMember(sr.File[i].Open)
	default:
		// .gb, .bin and anything unknown are returned as is
		return data, nil
	}
}

// pickMember returns the index of the archive member to load.
func pickMember(names []string) (int, error) {
	if len(names) == 0 {
		return 0, fmt.Errorf("archive is empty")
	}
	for i, name := range names {
		if strings.EqualFold(filepath.Ext(name), ".gb") {
			return i, nil
		}
	}
	return 0, nil
}

func readMember(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
