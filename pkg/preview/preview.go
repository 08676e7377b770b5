// Package preview downloads rendered images of Figma nodes, typically the
// published components of a file, so they can sit next to the generated code.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/figma"
)

const maxNodesPerRequest = 100

// Renderer renders nodes to temporary image URLs. *figma.Client implements it.
type Renderer interface {
	GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*figma.ImagesResponse, error)
}

// Config holds configuration for an export.
type Config struct {
	Format    string    // "png", "svg", "jpg", "pdf"
	Scales    []float64 // e.g. [1, 2] for raster; ignored for svg/pdf
	OutputDir string
	Parallel  int // concurrent downloads, 0 = 5
}

// DefaultConfig exports 1x PNGs into figma-previews.
func DefaultConfig() Config {
	return Config{
		Format:    "png",
		Scales:    []float64{1},
		OutputDir: "figma-previews",
		Parallel:  5,
	}
}

// Asset is one downloaded image.
type Asset struct {
	NodeID   string
	Name     string
	FileName string
	Format   string
	Scale    float64
}

// Result holds the downloaded assets, ordered by file name, and the
// per-image failures that did not stop the export.
type Result struct {
	Assets []Asset
	Errors []error
}

// Nodes maps the node ID of each component to its name.
func Nodes(comps []figma.ComponentMetadata) map[string]string {
	nodes := make(map[string]string, len(comps))
	for _, c := range comps {
		if c.NodeID != "" {
			nodes[c.NodeID] = c.Name
		}
	}
	return nodes
}

type job struct {
	asset Asset
	url   string
}

// Export renders nodes (node ID -> name) in batches and downloads the images
// into cfg.OutputDir. A failed render request aborts the export; a failed
// download is recorded in Result.Errors. A nil hc uses http.DefaultClient.
func Export(ctx context.Context, r Renderer, hc *http.Client, fileKey string, nodes map[string]string, cfg Config) (*Result, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 5
	}
	scales := cfg.Scales
	if len(scales) == 0 || cfg.Format == "svg" || cfg.Format == "pdf" {
		scales = []float64{1}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", cfg.OutputDir, err)
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &Result{}
	used := make(map[string]int)

	var jobs []job
	for _, scale := range scales {
		for i := 0; i < len(ids); i += maxNodesPerRequest {
			batch := ids[i:min(i+maxNodesPerRequest, len(ids))]

			resp, err := r.GetImages(ctx, fileKey, batch, cfg.Format, scale)
			if err != nil {
				return nil, fmt.Errorf("failed to render images: %w", err)
			}

			for _, id := range batch {
				url := resp.Images[id]
				if url == "" {
					result.Errors = append(result.Errors, fmt.Errorf("no image URL returned for node %s", id))
					continue
				}
				name := FileName(nodes[id], id, cfg.Format, scale)
				if n := used[name]; n > 0 {
					used[name]++
					ext := filepath.Ext(name)
					name = fmt.Sprintf("%s-%d%s", name[:len(name)-len(ext)], n+1, ext)
				} else {
					used[name] = 1
				}

				jobs = append(jobs, job{
					asset: Asset{NodeID: id, Name: nodes[id], FileName: name, Format: cfg.Format, Scale: scale},
					url:   url,
				})
			}
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for _, j := range jobs {
		g.Go(func() error {
			err := download(gctx, hc, j.url, filepath.Join(cfg.OutputDir, j.asset.FileName))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("failed to download %s: %w", j.asset.FileName, err))
				return nil
			}
			result.Assets = append(result.Assets, j.asset)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result.Assets, func(i, k int) bool { return result.Assets[i].FileName < result.Assets[k].FileName })
	return result, nil
}

func download(ctx context.Context, hc *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dest, err)
	}

	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write file %q: %w", dest, err)
	}
	return nil
}

// FileName builds a kebab-case file name from a node name, with an @Nx
// suffix for raster scales above 1. Unnamed nodes use their ID.
func FileName(nodeName, nodeID, format string, scale float64) string {
	name := component.KebabCase(component.PascalCase(nodeName))
	if name == "" {
		name = component.KebabCase(component.PascalCase(nodeID))
	}
	if name == "" {
		name = "asset"
	}

	suffix := ""
	if scale > 1 && format != "svg" && format != "pdf" {
		suffix = fmt.Sprintf("@%gx", scale)
	}
	return fmt.Sprintf("%s%s.%s", name, suffix, format)
}
