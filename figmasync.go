package figmasync

import (
	"context"
	"errors"
	"fmt"

	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/preview"
	"github.com/kataras/figma-ds-sync/pkg/styles"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

var (
	// ErrNoToken is returned when no personal access token is configured.
	ErrNoToken = errors.New("FIGMA_PAT not set")
	// ErrNoFileKey is returned when no file key or URL is configured.
	ErrNoFileKey = errors.New("FIGMA_FILE_ID not configured")
)

// Token sources reported by Pull.
const (
	SourceVariables = "variables"
	SourceStyles    = "styles"
)

// Options configures a Syncer.
type Options struct {
	AccessToken   string
	FileKey       string // file key or Figma file URL
	Collection    string // variable collection written by Push, "" = tokens.DefaultCollection
	Logger        Logger // nil = no logging
	ClientOptions []figma.ClientOption
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Syncer moves design tokens between one Figma file and the local token format.
type Syncer struct {
	client     *figma.Client
	fileKey    string
	collection string
	logger     Logger
}

// PullResult is the outcome of Pull.
type PullResult struct {
	Tokens tokens.Set
	Source string // SourceVariables or SourceStyles
}

// PushOptions controls Push.
type PushOptions struct {
	// Merge keeps the variables of the collection that the local set does
	// not mention. Without it they are deleted and the collection ends up
	// holding exactly the local set.
	Merge bool
	// DryRun plans the write without sending it.
	DryRun bool
}

// PushResult is the outcome of Push.
type PushResult struct {
	Tokens  tokens.Set           // the set that was (or would be) written
	Plan    *tokens.VariablesPlan
	Applied bool
	IDs     map[string]string // temporary ID -> created variable ID
}

// New returns a Syncer for the configured file.
func New(opts Options) (*Syncer, error) {
	if opts.AccessToken == "" {
		return nil, ErrNoToken
	}
	if opts.FileKey == "" {
		return nil, ErrNoFileKey
	}

	fileKey, err := figma.ResolveFileKey(opts.FileKey)
	if err != nil {
		return nil, fmt.Errorf("resolve file key: %w", err)
	}

	return &Syncer{
		client:     figma.NewClient(opts.AccessToken, opts.ClientOptions...),
		fileKey:    fileKey,
		collection: opts.Collection,
		logger:     opts.Logger,
	}, nil
}

// FileKey returns the resolved file key.
func (s *Syncer) FileKey() string {
	return s.fileKey
}

func (s *Syncer) logInfo(f string, a ...any) {
	if s.logger != nil {
		s.logger.Infof(f, a...)
	}
}

func (s *Syncer) logWarn(f string, a ...any) {
	if s.logger != nil {
		s.logger.Warnf(f, a...)
	}
}

// Pull fetches the file's local variables and normalizes them. Files the
// variables endpoint refuses (plan restrictions, older files) fall back to
// the published styles bound in the document tree. Empty categories are
// dropped from the result.
func (s *Syncer) Pull(ctx context.Context) (*PullResult, error) {
	s.logInfo("Fetching variables from file %s...", s.fileKey)
	resp, err := s.client.GetLocalVariables(ctx, s.fileKey)
	if err == nil {
		set := tokens.Normalize(resp.Meta)
		s.logInfo("Normalized %d token(s) from variables", set.Count())
		return &PullResult{Tokens: tokens.Export(set), Source: SourceVariables}, nil
	}

	var apiErr *figma.APIError
	if !errors.As(err, &apiErr) {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}

	s.logWarn("Variables unavailable (status %d), falling back to styles", apiErr.StatusCode)
	file, err := s.client.GetFile(ctx, s.fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	s.logInfo("File: %s", file.Name)

	set := styles.Extract(file)
	s.logInfo("Extracted %d token(s) from styles", set.Count())
	return &PullResult{Tokens: tokens.Export(set), Source: SourceStyles}, nil
}

// Push writes set into the file's variable collection. Existing variables
// are read first so that known names are updated instead of duplicated;
// where both sides define a token the local value wins. A dry run tolerates
// a failed read and plans against an empty file.
func (s *Syncer) Push(ctx context.Context, set tokens.Set, opts PushOptions) (*PushResult, error) {
	var existing *figma.VariablesMeta

	s.logInfo("Reading existing variables...")
	resp, err := s.client.GetLocalVariables(ctx, s.fileKey)
	switch {
	case err == nil:
		existing = &resp.Meta
	case opts.DryRun:
		s.logWarn("Could not read existing variables: %v", err)
	default:
		return nil, fmt.Errorf("fetch existing variables: %w", err)
	}

	set = tokens.Export(set)

	plan := tokens.ToVariables(set, s.collection, existing)
	for _, name := range plan.Skipped {
		s.logWarn("Skipping %s: no matching variable type", name)
	}
	if opts.Merge {
		if len(plan.Stale) > 0 {
			s.logInfo("Keeping %d variable(s) not in the local set", len(plan.Stale))
		}
	} else {
		plan.Prune()
	}

	result := &PushResult{Tokens: set, Plan: plan}
	if opts.DryRun {
		s.logInfo("Dry run: %d to create, %d to update, %d to delete", len(plan.Created), len(plan.Updated), len(plan.Deleted))
		return result, nil
	}

	if plan.Changes() == 0 {
		s.logInfo("Nothing to push")
		return result, nil
	}

	s.logInfo("Pushing %d variable(s)...", plan.Changes())
	posted, err := s.client.PostVariables(ctx, s.fileKey, plan.Request)
	if err != nil {
		return nil, fmt.Errorf("push variables: %w", err)
	}

	result.Applied = true
	result.IDs = posted.Meta.TempIDToRealID
	return result, nil
}

// Components lists the components published from the file.
func (s *Syncer) Components(ctx context.Context) ([]figma.ComponentMetadata, error) {
	resp, err := s.client.GetFileComponents(ctx, s.fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch components: %w", err)
	}
	return resp.Meta.Components, nil
}

// ExportPreviews downloads rendered images of the file's published components.
func (s *Syncer) ExportPreviews(ctx context.Context, cfg preview.Config) (*preview.Result, error) {
	comps, err := s.Components(ctx)
	if err != nil {
		return nil, err
	}

	nodes := preview.Nodes(comps)
	if len(nodes) == 0 {
		return &preview.Result{}, nil
	}

	s.logInfo("Exporting %d component preview(s) to %s...", len(nodes), cfg.OutputDir)
	result, err := preview.Export(ctx, s.client, nil, s.fileKey, nodes, cfg)
	if err != nil {
		return nil, fmt.Errorf("export previews: %w", err)
	}
	for _, e := range result.Errors {
		s.logWarn("%v", e)
	}
	return result, nil
}
