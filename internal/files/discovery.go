package files

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo describes one discovered file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery walks the configured folder trees for instrument files.
type Discovery struct {
	folders []string
	logger  *slog.Logger
}

// NewDiscovery creates a discovery over the given source folders.
func NewDiscovery(folders []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{folders: folders, logger: logger}
}

// FindByExtension recursively walks every configured folder and returns the
// files whose extension matches one of exts (case-insensitive, leading dot
// included, e.g. ".jpg"). Results come back in walk order: folders in
// configuration order, entries in lexical order within each tree, so two
// runs over an unchanged tree return the same list.
//
// A folder that cannot be walked at all fails the call; unreadable entries
// below a walkable root are logged and skipped.
func (d *Discovery) FindByExtension(ctx context.Context, exts ...string) ([]FileInfo, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var found []FileInfo
	for _, folder := range d.folders {
		err := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				if path == folder {
					return err
				}
				d.logger.WarnContext(ctx, "skipping unreadable entry",
					slog.String("path", path),
					slog.String("error", err.Error()))
				return nil
			}
			if entry.IsDir() {
				return nil
			}
			if !want[strings.ToLower(filepath.Ext(entry.Name()))] {
				return nil
			}
			info, err := entry.Info()
			if err != nil {
				d.logger.WarnContext(ctx, "skipping unstatable file",
					slog.String("path", path),
					slog.String("error", err.Error()))
				return nil
			}
			found = append(found, FileInfo{
				Path:    path,
				Name:    entry.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk folder %s: %w", folder, err)
		}
	}

	return found, nil
}

// Stems returns the base names of the given files with their extension
// dropped, for companion-file matching.
func Stems(infos []FileInfo) []string {
	stems := make([]string, len(infos))
	for i, info := range infos {
		stems[i] = strings.TrimSuffix(info.Name, filepath.Ext(info.Name))
	}
	return stems
}
