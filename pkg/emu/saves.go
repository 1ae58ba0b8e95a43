// Package emu stores save states on disk, grouped by the title of
// the cartridge they were made with.
package emu

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/thelolagemann/gomeboy-core/pkg/utils"
)

const saveExtension = ".state"

// now is swapped out by tests.
var now = time.Now

// save file naming convention:
// <dir>/<cartridge title>/<unix nano timestamp>.state

// Save represents a save state file.
type Save struct {
	b         []byte // the save state data
	Path      string // the path to the save file
	Timestamp int64  // when the save was made, in nanoseconds since the Unix epoch
}

// NewSave writes a new save state for the given cartridge title
// into dir. The data is written to a temporary file first, and
// renamed once complete, so a crash never leaves a partial save.
func NewSave(dir, title string, state []byte) (*Save, error) {
	// create the save folder for the cartridge if it doesn't exist
	romSaveFolder := filepath.Join(dir, sanitizeTitle(title))
	if err := os.MkdirAll(romSaveFolder, 0755); err != nil {
		return nil, err
	}

	timeStamp := now().UnixNano()
	s := &Save{
		b:         state,
		Path:      filepath.Join(romSaveFolder, fmt.Sprintf("%d%s", timeStamp, saveExtension)),
		Timestamp: timeStamp,
	}

	f, err := os.CreateTemp(romSaveFolder, fmt.Sprintf("%s.*", filepath.Base(s.Path)))
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(state); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write to temporary save file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	if err := os.Rename(f.Name(), s.Path); err != nil {
		return nil, err
	}

	return s, nil
}

// LoadSaves loads all save states for the given cartridge title.
// The saves are sorted with the newest first. If no saves exist, an
// empty slice is returned.
func LoadSaves(dir, title string) ([]*Save, error) {
	romSaveFolder := filepath.Join(dir, sanitizeTitle(title))

	files, err := os.ReadDir(romSaveFolder)
	if os.IsNotExist(err) {
		return make([]*Save, 0), nil
	}
	if err != nil {
		return nil, err
	}

	saves := make([]*Save, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !isFileSaveFile(file.Name()) {
			continue
		}
		savePath := filepath.Join(romSaveFolder, file.Name())
		b, err := utils.LoadFile(savePath)
		if err != nil {
			return nil, err
		}
		saves = append(saves, &Save{
			b:         b,
			Path:      savePath,
			Timestamp: parseTimestampFromFilename(file.Name()),
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp > saves[j].Timestamp
	})

	return saves, nil
}

// Bytes returns the save state data.
func (s *Save) Bytes() []byte {
	return s.b
}

// parseTimestampFromFilename parses the timestamp from the given filename.
// The filename is expected to be in the format of "<timestamp>.state".
func parseTimestampFromFilename(filename string) int64 {
	n, err := strconv.ParseInt(strings.TrimSuffix(filename, saveExtension), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func isFileSaveFile(filename string) bool {
	return strings.HasSuffix(filename, saveExtension)
}

// sanitizeTitle makes a cartridge title usable as a directory name.
func sanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if title == "" || title == "." || title == ".." {
		return "untitled"
	}
	return title
}
