package styledict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// MergeFiles reads the token files in order and merges them entry by entry;
// later files win on name collisions within a category. Paths that do not
// exist are skipped. A file that decodes but fails validation is left out of
// the merge and its *tokens.ValidationError returned in skipped; unreadable
// or malformed JSON aborts.
func MergeFiles(paths ...string) (merged tokens.Set, skipped []error, err error) {
	merged = make(tokens.Set)

	for _, path := range paths {
		set, err := tokens.Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			var verr *tokens.ValidationError
			if errors.As(err, &verr) {
				skipped = append(skipped, err)
				continue
			}
			return nil, skipped, err
		}
		merged = tokens.Merge(merged, set)
	}

	return merged, skipped, nil
}

// ValidateConfig checks a Style Dictionary config file for the fields a
// build needs. The file may be JSON or JavaScript, so the check is textual.
func ValidateConfig(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{fmt.Sprintf("Configuration file not found: %s", path)}
		}
		return []string{fmt.Sprintf("Failed to read configuration: %v", err)}
	}

	var errs []string
	content := string(data)
	for _, field := range []string{"source", "platforms"} {
		if !strings.Contains(content, field) {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}
	return errs
}

// Marshal encodes a built set as indented JSON.
func Marshal(set Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("failed to encode build tokens: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteBuild writes one tokens.json per platform under dir/<platform>/ and
// returns the written paths.
func (t *Transformer) WriteBuild(dir string, set tokens.Set, platforms ...string) ([]string, error) {
	if len(platforms) == 0 {
		platforms = []string{PlatformWeb}
	}

	paths := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		data, err := Marshal(t.Build(set, platform))
		if err != nil {
			return paths, err
		}

		out := filepath.Join(dir, platform, "tokens.json")
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return paths, fmt.Errorf("failed to create build directory: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", out, err)
		}
		paths = append(paths, out)
	}

	return paths, nil
}

// WriteBuild writes platform builds using StandardDefaults.
func WriteBuild(dir string, set tokens.Set, platforms ...string) ([]string, error) {
	return std.WriteBuild(dir, set, platforms...)
}
