package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Pair is a created up/down migration file pair
type Pair struct {
	Version  string
	UpPath   string
	DownPath string
}

// Create writes an empty up/down migration pair named after name.
// Versions are second-resolution timestamps so files sort in creation
// order.
func Create(migrationsDir, name string) (*Pair, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := time.Now().Format("20060102150405")
	base := version + "_" + slugify(name)
	p := &Pair{
		Version:  version,
		UpPath:   filepath.Join(migrationsDir, base+".up.sql"),
		DownPath: filepath.Join(migrationsDir, base+".down.sql"),
	}

	header := fmt.Sprintf("-- %s\n\n", name)
	if err := os.WriteFile(p.UpPath, []byte(header), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(p.DownPath, []byte(header), 0o644); err != nil {
		_ = os.Remove(p.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return p, nil
}

// List returns the base names of migration pairs found in migrationsDir
func List(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
