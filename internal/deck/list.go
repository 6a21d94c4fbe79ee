package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Info describes a deck file on disk.
type Info struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

// List returns the *.txt decks in dir sorted by name. A missing dir is
// not an error.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deck directory: %w", err)
	}
	var decks []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat deck: %w", err)
		}
		path := filepath.Join(dir, entry.Name())
		decks = append(decks, Info{
			Name:     NameFromPath(path),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(decks, func(i, j int) bool {
		return decks[i].Name < decks[j].Name
	})
	return decks, nil
}
