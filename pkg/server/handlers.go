package server

import (
	"errors"
	"net/http"
	"strconv"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/styledict"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"name":    Name,
		"version": figma.Version,
		"status":  "active",
	})
}

func (s *Server) requireSyncer(w http.ResponseWriter) bool {
	if s.syncer == nil {
		Error(w, http.StatusBadRequest, "Figma credentials not configured: set FIGMA_PAT and FIGMA_FILE_ID")
		return false
	}
	return true
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	if !s.requireSyncer(w) {
		return
	}

	result, err := s.syncer.Pull(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	w.Header().Set("X-Token-Source", result.Source)
	JSON(w, http.StatusOK, tokens.Export(result.Tokens))
}

// handlePush accepts a token document. Query parameters merge (default
// true) and dry_run (default false) map to figmasync.PushOptions.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	if !s.requireSyncer(w) {
		return
	}

	opts := figmasync.PushOptions{Merge: true}
	for name, dst := range map[string]*bool{"merge": &opts.Merge, "dry_run": &opts.DryRun} {
		if v := r.URL.Query().Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				Error(w, http.StatusBadRequest, "invalid "+name+" parameter: "+v)
				return
			}
			*dst = b
		}
	}

	set, ok := readTokens(w, r)
	if !ok {
		return
	}

	result, err := s.syncer.Push(r.Context(), set, opts)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	message := "Tokens synced to Figma"
	if opts.DryRun {
		message = "Dry run: no changes were made"
	}
	JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       message,
		"dry_run":       opts.DryRun,
		"updated_count": result.Plan.Changes(),
		"created":       nonNil(result.Plan.Created),
		"updated":       nonNil(result.Plan.Updated),
		"deleted":       nonNil(result.Plan.Deleted),
		"skipped":       nonNil(result.Plan.Skipped),
	})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	if !s.requireSyncer(w) {
		return
	}

	comps, err := s.syncer.Components(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	if comps == nil {
		comps = []figma.ComponentMetadata{}
	}
	JSON(w, http.StatusOK, map[string]any{"components": comps})
}

// handleValidate reports every structural problem of a token document. An
// invalid document is still a 200; only undecodable JSON is an error.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, ok := readRaw(w, r)
	if !ok {
		return
	}

	errs := tokens.Validate(raw)
	summary := make(map[string]int)
	for category, v := range raw {
		if toks, ok := v.(map[string]any); ok {
			summary[category] = len(toks)
		}
	}

	JSON(w, http.StatusOK, map[string]any{
		"valid":   len(errs) == 0,
		"errors":  nonNil(errs),
		"summary": summary,
	})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = styledict.PlatformWeb
	}

	set, ok := readTokens(w, r)
	if !ok {
		return
	}

	JSON(w, http.StatusOK, styledict.Build(set, platform))
}

type sourceFile struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

type componentSpecRequest struct {
	Files []sourceFile `json:"files"`
	// Set builds a component set even from a single file. More than one
	// file always yields a set.
	Set bool `json:"set"`
}

func (s *Server) handleComponentSpec(w http.ResponseWriter, r *http.Request) {
	var req componentSpecRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Files) == 0 {
		Error(w, http.StatusBadRequest, "no component files given")
		return
	}

	recs := make([]*component.Record, 0, len(req.Files))
	for _, f := range req.Files {
		rec, err := component.Extract(f.Source, f.Path)
		if err != nil {
			Error(w, http.StatusUnprocessableEntity, f.Path+": "+err.Error())
			return
		}
		recs = append(recs, rec)
	}

	var (
		spec *component.Spec
		err  error
	)
	if len(recs) == 1 && !req.Set {
		spec, err = component.ToComponentSpec(recs[0])
	} else {
		spec, err = component.ToComponentSetSpec(recs)
	}
	if err != nil {
		var invErr *component.InvariantError
		if errors.As(err, &invErr) {
			Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"spec":       spec,
		"components": recs,
	})
}

func (s *Server) handleGenerateReact(w http.ResponseWriter, r *http.Request) {
	var def component.Spec
	if !decodeBody(w, r, &def) {
		return
	}
	if def.Name == "" {
		Error(w, http.StatusBadRequest, "component name is required")
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"name":   component.PascalCase(def.Name),
		"source": component.GenerateReact(&def),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
