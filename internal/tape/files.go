package tape

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Ext is the file extension of tape scripts.
const Ext = ".tape"

// File is a tape script on disk.
type File struct {
	Name     string // without extension
	Path     string
	Size     int64
	Modified time.Time
}

// Directory returns the XDG data directory for tapes, creating it if needed.
func Directory() (string, error) {
	probe, err := xdg.DataFile("flickboard/tapes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get tape directory: %w", err)
	}
	return filepath.Dir(probe), nil
}

// ListFiles returns the tapes in dir, newest first.
func ListFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tape directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:     strings.TrimSuffix(name, Ext),
			Path:     filepath.Join(dir, name),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// Save writes content as name in dir and returns the path. An empty name gets
// a timestamped one.
func Save(dir, name, content string, now time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "recording_" + now.Format("20060102_150405")
	}
	if !strings.HasSuffix(name, Ext) {
		name += Ext
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("invalid tape name %q", name)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write tape file: %w", err)
	}
	return path, nil
}
