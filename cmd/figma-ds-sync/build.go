package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"syscall"

	"github.com/kataras/figma-ds-sync/pkg/styledict"
	"github.com/kataras/figma-ds-sync/pkg/watch"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

func buildCmd() *cobra.Command {
	var (
		outDir    string
		platforms []string
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "build [token files...]",
		Short: "Build Style Dictionary token files for each platform",
		Long:  "Merge the token files (every JSON file under the tokens directory by default; later files win) and write <out>/<platform>/tokens.json for each platform",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if outDir == "" {
				outDir = cfg.Tokens.BuildOutput
			}
			if len(platforms) == 0 {
				platforms = cfg.Tokens.Platforms
			}
			for _, p := range platforms {
				if !slices.Contains(styledict.Platforms, p) {
					fail("unknown platform %q (want one of %v)", p, styledict.Platforms)
				}
			}

			ignore, err := outputIgnore(cfg.Tokens.Dir, outDir)
			if err != nil {
				fail("%v", err)
			}

			build := func() error {
				files := args
				if len(files) == 0 {
					var err error
					if files, err = tokenFiles(cfg.Tokens.Dir, ignore...); err != nil {
						return err
					}
				}
				if len(files) == 0 {
					return fmt.Errorf("no token files found in %s", cfg.Tokens.Dir)
				}

				set, skipped, err := styledict.MergeFiles(files...)
				if err != nil {
					return err
				}
				for _, e := range skipped {
					red.Printf("Skipped %v\n", e)
				}
				written, err := styledict.WriteBuild(outDir, set, platforms...)
				if err != nil {
					return err
				}

				green.Printf("✓ Built %d token(s) from %d file(s)\n", set.Count(), len(files))
				for _, p := range written {
					fmt.Printf("  • %s\n", p)
				}
				return nil
			}

			if err := build(); err != nil {
				if !watchMode {
					fail("%v", err)
				}
				red.Printf("Error: %v\n", err)
			}
			if !watchMode {
				return
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			opts := watch.DefaultOptions()
			opts.Ignore = ignore
			w, err := watch.New(cfg.Tokens.Dir, opts, logger)
			if err != nil {
				fail("%v", err)
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cyan.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", cfg.Tokens.Dir)
			err = w.Run(ctx, func(changed []string) {
				cyan.Printf("\nChanged: %v\n", changed)
				if err := build(); err != nil {
					red.Printf("Error: %v\n", err)
				}
			})
			if err != nil {
				fail("%v", err)
			}
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Build output directory (default from config: build)")
	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, "Platforms to build: web, ios, android (default from config: all)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild when token files change")
	return cmd
}

// tokenFiles returns the JSON files under dir in path order, leaving out
// those matching an ignore pattern.
func tokenFiles(dir string, ignore ...string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.json")
	if err != nil {
		return nil, fmt.Errorf("listing token files: %w", err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if slices.ContainsFunc(ignore, func(p string) bool {
			ok, _ := doublestar.Match(p, m)
			return ok
		}) {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return files, nil
}

// outputIgnore returns the patterns, relative to tokensDir, covering a build
// output directory nested inside it, so built files are neither read back as
// tokens nor watched. Building into tokensDir itself is rejected.
func outputIgnore(tokensDir, outDir string) ([]string, error) {
	root, err := filepath.Abs(tokensDir)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(root, out)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, nil
	}
	if rel == "." {
		return nil, fmt.Errorf("build output %s must not be the tokens directory", outDir)
	}

	rel = filepath.ToSlash(rel)
	return []string{rel, rel + "/**"}, nil
}
