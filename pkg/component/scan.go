package component

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ScanConfig selects the files a directory scan reads. Patterns are
// doublestar globs matched against slash-separated paths relative to the root.
type ScanConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// MaxCachedFiles bounds the extraction cache. Zero means 512.
	MaxCachedFiles int `yaml:"-"`
}

// DefaultScanConfig reads React sources and skips tests, stories and build output.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.tsx",
			"**/*.jsx",
			"**/*.ts",
			"**/*.js",
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			"build/**",
			"**/build/**",
			"dist/**",
			"**/dist/**",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
		},
	}
}

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths.
func DiscoverFiles(rootDir string, cfg ScanConfig) ([]string, error) {
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("component directory: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range cfg.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(cfg.Include) > 0 {
			matched := false
			for _, pattern := range cfg.Include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	record  *Record
}

// Scanner extracts components from a directory tree. Extracted records are
// cached per path and reused while the file's size and modification time are
// unchanged, so repeated scans (watch mode, the servers) only re-read edits.
type Scanner struct {
	config ScanConfig
	cache  *lru.Cache[string, cacheEntry]
	logger *slog.Logger
}

// NewScanner creates a Scanner. A nil logger uses slog.Default().
func NewScanner(config ScanConfig, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = 512
	}

	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(path string, _ cacheEntry) {
		logger.Debug("component cache evicting file", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create component cache: %w", err)
	}

	return &Scanner{config: config, cache: cache, logger: logger}, nil
}

// Scan extracts every matching file under root and returns the components
// that declare at least one prop, ordered by path. A file that cannot be read
// or parsed is logged and skipped.
func (s *Scanner) Scan(root string) ([]*Record, error) {
	files, err := DiscoverFiles(root, s.config)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(files))
	for _, path := range files {
		rec, err := s.ExtractFile(path)
		if err != nil {
			s.logger.Warn("skipping component file", "path", path, "error", err)
			continue
		}
		if len(rec.Props) == 0 {
			continue
		}
		records = append(records, rec)
	}

	s.logger.Debug("component scan finished", "root", root, "files", len(files), "components", len(records))
	return records, nil
}

// ExtractFile extracts one file, serving unchanged files from the cache.
func (s *Scanner) ExtractFile(path string) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if entry, ok := s.cache.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.record, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rec, err := Extract(string(data), path)
	if err != nil {
		s.cache.Remove(path)
		return nil, err
	}

	s.cache.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), record: rec})
	return rec, nil
}

// Scan extracts components under root with DefaultScanConfig.
func Scan(root string, logger *slog.Logger) ([]*Record, error) {
	s, err := NewScanner(DefaultScanConfig(), logger)
	if err != nil {
		return nil, err
	}
	return s.Scan(root)
}
