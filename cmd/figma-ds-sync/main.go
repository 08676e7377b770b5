package main

import (
	"fmt"
	"os"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/config"
	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/tokens"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = figma.Version

var (
	configPath  string
	envFile     string
	accessToken string
	fileID      string
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-ds-sync",
		Short: "Sync design tokens between Figma and your codebase",
		Long:  "Pull design tokens from Figma variables, push local tokens back, build platform token files and derive Figma component specs from React sources",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() == "init" || cmd.Name() == "version" {
				return
			}
			if !config.LoadEnv(envFile) {
				color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: %s file not found. Using system environment variables.\n", envFile)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Project config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Credentials file")
	rootCmd.PersistentFlags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (overrides FIGMA_PAT)")
	rootCmd.PersistentFlags().StringVarP(&fileID, "file-id", "f", "", "Figma file ID or URL (overrides FIGMA_FILE_ID)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-ds-sync version %s\n", version)
		},
	}

	rootCmd.AddCommand(
		pullCmd(),
		pushCmd(),
		validateCmd(),
		initCmd(),
		buildCmd(),
		componentsCmd(),
		serveCmd(),
		mcpCmd(),
		versionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	red.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// newSyncer builds a Syncer from flags, environment and project config.
func newSyncer(cfg *config.Config, logger figmasync.Logger) (*figmasync.Syncer, error) {
	token, key := config.Credentials(accessToken, fileID, cfg)
	return figmasync.New(figmasync.Options{
		AccessToken: token,
		FileKey:     key,
		Collection:  cfg.Collection,
		Logger:      logger,
	})
}

func printSummary(title string, set tokens.Set) {
	cyan.Printf("\n%s\n", title)
	for _, category := range set.Categories() {
		fmt.Printf("  • %-14s %d\n", category, len(set[category]))
	}
	fmt.Println()
}

// cliLogger implements figmasync.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
