package parsers

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccboard/ccboard/internal/models"
)

// ScanHooks walks dir (typically .claude/hooks/bash) and returns one Hook
// per regular file, checking its executable bit and whether its first line
// is a recognizable shebang. It never returns an error for an individual
// file: one whose file info cannot be read is skipped, and one that cannot
// be opened is reported with ShebangValid false and Executable taken from
// its mode bits.
func ScanHooks(dir string) ([]models.Hook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, models.LoadError{Kind: models.ErrMissing, Path: dir, Context: err.Error()}
	}

	var hooks []models.Hook
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		hook := models.Hook{
			Name:       entry.Name(),
			Path:       path,
			Executable: info.Mode()&0o111 != 0,
		}
		hook.ShebangValid = hasValidShebang(path)
		hooks = append(hooks, hook)
	}
	return hooks, nil
}

func hasValidShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256), 4096)
	if !scanner.Scan() {
		return false
	}
	line := scanner.Text()
	return strings.HasPrefix(line, "#!")
}
