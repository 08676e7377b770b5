package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/config"
	"github.com/kataras/figma-ds-sync/pkg/formatter"
	"github.com/kataras/figma-ds-sync/pkg/styledict"
	"github.com/kataras/figma-ds-sync/pkg/tokens"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func pullCmd() *cobra.Command {
	var (
		output   string
		markdown string
		compact  bool
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull design tokens from Figma",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if output == "" {
				output = cfg.Tokens.Output
			}

			syncer, err := newSyncer(cfg, &cliLogger{})
			if err != nil {
				fail("%v. Set it in %s or use the flags.", err, envFile)
			}
			cyan.Printf("Pulling tokens from Figma file: %s\n", syncer.FileKey())

			result, err := syncer.Pull(context.Background())
			if err != nil {
				fail("%v", err)
			}

			if compact {
				err = writeCompact(output, result.Tokens)
			} else {
				err = tokens.Save(output, result.Tokens)
			}
			if err != nil {
				fail("%v", err)
			}
			green.Printf("\n✓ Successfully pulled tokens to %s (from %s)\n", output, result.Source)

			if markdown != "" {
				doc := formatter.ToMarkdown(result.Tokens, "Design Tokens")
				if err := os.WriteFile(markdown, []byte(doc), 0644); err != nil {
					fail("%v", err)
				}
				green.Printf("✓ Wrote token reference to %s\n", markdown)
			}

			printSummary("Token Summary", result.Tokens)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path for tokens (default from config: tokens/tokens.json)")
	cmd.Flags().StringVar(&markdown, "markdown", "", "Also write a markdown token reference to this file")
	cmd.Flags().BoolVar(&compact, "compact", false, "Write JSON without indentation")
	return cmd
}

func writeCompact(path string, set tokens.Set) error {
	data, err := json.Marshal(tokens.Export(set))
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create tokens directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func pushCmd() *cobra.Command {
	var (
		input  string
		merge  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push design tokens to Figma",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if input == "" {
				input = cfg.Tokens.Output
			}

			if _, err := os.Stat(input); err != nil {
				fail("Token file not found: %s", input)
			}
			set := loadTokens(input)

			syncer, err := newSyncer(cfg, &cliLogger{})
			if err != nil {
				fail("%v. Set it in %s or use the flags.", err, envFile)
			}
			cyan.Printf("Pushing tokens to Figma file: %s\n", syncer.FileKey())

			result, err := syncer.Push(context.Background(), set, figmasync.PushOptions{Merge: merge, DryRun: dryRun})
			if err != nil {
				fail("%v", err)
			}

			plan := result.Plan
			if dryRun {
				color.New(color.FgYellow).Println("\nDRY RUN - No changes will be made")
				printNames("create", plan.Created)
				printNames("update", plan.Updated)
				printNames("delete", plan.Deleted)
				printNames("skip", plan.Skipped)
				return
			}

			if !result.Applied {
				green.Println("\n✓ Figma variables already match the local tokens")
				return
			}
			green.Println("\n✓ Successfully pushed tokens to Figma")
			fmt.Printf("Updated tokens: %d\n", plan.Changes())
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file path for tokens (default from config: tokens/tokens.json)")
	cmd.Flags().BoolVarP(&merge, "merge", "m", true, "Keep Figma variables missing from the input (--merge=false replaces the collection)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview changes without applying")
	return cmd
}

func printNames(action string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Printf("  %s (%d):\n", action, len(names))
	for _, name := range names {
		fmt.Printf("    - %s\n", name)
	}
}

// loadTokens reads a token file, printing every validation error on failure.
func loadTokens(path string) tokens.Set {
	set, err := tokens.Load(path)
	if err == nil {
		return set
	}

	var verr *tokens.ValidationError
	if errors.As(err, &verr) {
		red.Println("Token validation errors:")
		for _, e := range verr.Errors {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	}
	fail("%v", err)
	return nil
}

func validateCmd() *cobra.Command {
	var styleConfig string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate token file structure",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 && styleConfig == "" {
				fail("nothing to validate: pass token files or --style-config")
			}

			failed := false
			for _, path := range args {
				if !validateFile(path) {
					failed = true
				}
			}

			if styleConfig != "" {
				if errs := styledict.ValidateConfig(styleConfig); len(errs) > 0 {
					red.Printf("Style Dictionary config %s is invalid:\n", styleConfig)
					for _, e := range errs {
						fmt.Printf("  - %s\n", e)
					}
					failed = true
				} else {
					green.Printf("✓ %s is a valid Style Dictionary config\n", styleConfig)
				}
			}

			if failed {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&styleConfig, "style-config", "", "Also check a Style Dictionary config file")
	return cmd
}

func validateFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		red.Printf("Error: File not found: %s\n", path)
		return false
	}

	raw, err := tokens.Decode(data)
	if err != nil {
		red.Printf("Error: Invalid JSON in %s: %v\n", path, err)
		return false
	}

	if errs := tokens.Validate(raw); len(errs) > 0 {
		red.Printf("Validation errors found in %s:\n", path)
		for _, e := range errs {
			fmt.Printf("  - %s\n", e)
		}
		return false
	}

	green.Printf("✓ %s is valid!\n", path)
	set, _ := tokens.FromRaw(raw)
	printSummary("Token Summary", set)
	return true
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize Figma sync configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cyan.Println("Initializing Figma Design System Sync...")

			if _, err := os.Stat(envFile); err == nil && !force {
				if !confirm(cmd, fmt.Sprintf("An %s file already exists. Overwrite?", envFile)) {
					return
				}
			}

			token := accessToken
			if token == "" {
				token = prompt(cmd, "Enter your Figma Personal Access Token")
			}
			key := fileID
			if key == "" {
				key = prompt(cmd, "Enter your Figma File ID")
			}
			if token == "" || key == "" {
				fail("both a token and a file ID are required")
			}

			if err := config.WriteEnv(envFile, token, key); err != nil {
				fail("%v", err)
			}

			cfg := loadConfig()
			if _, err := os.Stat(configPath); err != nil {
				if err := config.Save(configPath, cfg); err != nil {
					fail("%v", err)
				}
				green.Printf("  - Created %s\n", configPath)
			}

			paths, err := config.WriteSamples(cfg.Tokens.Dir)
			if err != nil {
				fail("%v", err)
			}

			green.Println("\n✓ Initialization complete!")
			fmt.Printf("  - Created %s file with Figma credentials\n", envFile)
			fmt.Printf("  - Created %s/ directory with sample token files: %s\n", cfg.Tokens.Dir, strings.Join(paths, ", "))
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Run figma-ds-sync pull to fetch tokens from Figma")
			fmt.Printf("  2. Edit tokens in %s/ directory\n", cfg.Tokens.Dir)
			fmt.Println("  3. Run figma-ds-sync push to sync back to Figma")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing credentials file without asking")
	return cmd
}
