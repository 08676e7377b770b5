// Package config loads the project file figma-sync.yaml and the Figma
// credentials kept in .env.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the project config file name.
const DefaultFile = "figma-sync.yaml"

// DefaultEnvFile holds FIGMA_PAT and FIGMA_FILE_ID.
const DefaultEnvFile = ".env"

// Environment variables read by Credentials.
const (
	EnvToken  = "FIGMA_PAT"
	EnvFileID = "FIGMA_FILE_ID"
)

// TokensConfig locates token files.
type TokensConfig struct {
	Dir         string   `yaml:"dir"`
	Output      string   `yaml:"output"`
	BuildOutput string   `yaml:"build_output"`
	Platforms   []string `yaml:"platforms"`
}

// ComponentsConfig locates component sources.
type ComponentsConfig struct {
	Dir     string   `yaml:"dir"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// ServerConfig configures the REST bridge.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the contents of figma-sync.yaml.
type Config struct {
	FileKey    string           `yaml:"file_key,omitempty"`
	Collection string           `yaml:"collection,omitempty"`
	Tokens     TokensConfig     `yaml:"tokens"`
	Components ComponentsConfig `yaml:"components"`
	Server     ServerConfig     `yaml:"server"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Collection: "Design Tokens",
		Tokens: TokensConfig{
			Dir:         "tokens",
			Output:      filepath.Join("tokens", "tokens.json"),
			BuildOutput: "build",
			Platforms:   []string{"web", "ios", "android"},
		},
		Components: ComponentsConfig{
			Dir: filepath.Join("src", "components"),
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// Load reads the project file at path. A missing file yields Default.
// Fields left empty in the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.merge(&file)

	return cfg, nil
}

func (c *Config) merge(o *Config) {
	c.FileKey = firstNonEmpty(o.FileKey, c.FileKey)
	c.Collection = firstNonEmpty(o.Collection, c.Collection)
	c.Tokens.Dir = firstNonEmpty(o.Tokens.Dir, c.Tokens.Dir)
	c.Tokens.Output = firstNonEmpty(o.Tokens.Output, c.Tokens.Output)
	c.Tokens.BuildOutput = firstNonEmpty(o.Tokens.BuildOutput, c.Tokens.BuildOutput)
	if len(o.Tokens.Platforms) > 0 {
		c.Tokens.Platforms = o.Tokens.Platforms
	}
	c.Components.Dir = firstNonEmpty(o.Components.Dir, c.Components.Dir)
	if len(o.Components.Include) > 0 {
		c.Components.Include = o.Components.Include
	}
	if len(o.Components.Exclude) > 0 {
		c.Components.Exclude = o.Components.Exclude
	}
	c.Server.Addr = firstNonEmpty(o.Server.Addr, c.Server.Addr)
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// LoadEnv loads the given .env files into the process environment without
// overriding variables that are already set. It reports whether any file
// was found.
func LoadEnv(paths ...string) bool {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}

	found := false
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			found = true
		}
	}
	return found
}

// Credentials resolves the access token and file key. Explicit values win
// over the environment, and the environment wins over the project file.
func Credentials(token, fileKey string, cfg *Config) (string, string) {
	fallback := ""
	if cfg != nil {
		fallback = cfg.FileKey
	}
	return firstNonEmpty(strings.TrimSpace(token), strings.TrimSpace(os.Getenv(EnvToken))),
		firstNonEmpty(strings.TrimSpace(fileKey), strings.TrimSpace(os.Getenv(EnvFileID)), fallback)
}

// WriteEnv writes the credentials to a .env file at path.
func WriteEnv(path, token, fileKey string) error {
	env := map[string]string{
		EnvToken:  token,
		EnvFileID: fileKey,
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadEnv returns the variables defined in a .env file.
func ReadEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
