// Package figmasync keeps design tokens in sync between a Figma file and a
// codebase.
//
// The CLI lives in cmd/figma-ds-sync; this root package exposes the Figma
// round trip as a Go API so that callers can embed pulling and pushing
// tokens in their own tools without shelling out. The pure transforms live
// under pkg/: tokens (normalize, validate, merge), styledict (build format
// and platform output), component (React props extraction and Figma
// component specs).
//
// # Import
//
// The module path contains hyphens but Go package names cannot, so the
// package is named figmasync:
//
//	import "github.com/kataras/figma-ds-sync" // package figmasync
//
// # Quick start
//
//	s, err := figmasync.New(figmasync.Options{
//	    AccessToken: os.Getenv("FIGMA_PAT"),
//	    FileKey:     "https://www.figma.com/design/ABC123/My-Design",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := s.Pull(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tokens.Save("tokens/tokens.json", result.Tokens)
//
// # Pushing
//
// [Syncer.Push] writes a token set into a variable collection. Existing
// variables with the same "category/name" are updated in place. With
// [PushOptions.Merge] variables the local set does not mention are kept;
// without it they are deleted. [PushOptions.DryRun] returns the plan
// without writing.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package figmasync
