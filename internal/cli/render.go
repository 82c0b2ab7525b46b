package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irgraph/pkg/cache"
	"github.com/matzehuels/irgraph/pkg/io"
	"github.com/matzehuels/irgraph/pkg/ir"
	"github.com/matzehuels/irgraph/pkg/observability"
	"github.com/matzehuels/irgraph/pkg/render/nodelink"
)

// artifactTTL bounds how long rendered artifacts stay reusable.
const artifactTTL = 7 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path
	format     string // output format: "svg", "png", "dot"
	detailed   bool   // include display pairs in node labels
	tombstoned bool   // include deleted nodes
	noCache    bool   // bypass the artifact cache
}

// newRenderCmd creates the render command for generating diagrams.
// It supports SVG, PNG, and raw DOT output. Rendered SVG and PNG bytes are
// cached on disk keyed by the graph content and the render options, so an
// unchanged graph renders instantly on repeat runs.
//
// Defaults come from the config file when present (format: svg otherwise).
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a computation graph to a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				opts.format = cfg.Render.Format
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = cfg.Render.Detailed
			}
			if !cmd.Flags().Changed("tombstoned") {
				opts.tombstoned = cfg.Render.Tombstoned
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include display pairs in node labels")
	cmd.Flags().BoolVar(&opts.tombstoned, "tombstoned", false, "include deleted nodes, drawn dashed")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "dot": true}

// validateFormat checks that the requested format is supported.
func validateFormat(f string) error {
	if !validFormats[f] {
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", f)
	}
	return nil
}

// outputPath derives the output file path from the flags and input path.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// runRender loads the graph from input and renders it to the requested
// format, consulting the artifact cache for SVG and PNG output.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	logger.Infof("Rendering %s", input)

	reg, err := importGraph(ctx, input)
	if err != nil {
		return err
	}
	edges := countEdges(reg)
	logger.Infof("Loaded graph: %d nodes, %d edges", reg.Len(), edges)

	data, cached, err := renderGraph(ctx, reg, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	path := outputPath(opts.output, input, opts.format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", reg.Len()))

	printSuccess("Generated %s", path)
	printStats(reg.Len(), edges, cached)
	return nil
}

// importGraph decodes a snapshot file, emitting pipeline hook events.
func importGraph(ctx context.Context, path string) (*ir.Registry, error) {
	start := time.Now()
	observability.Pipeline().OnImportStart(ctx, path)

	reg, err := io.ImportJSON(path)

	nodes := 0
	if reg != nil {
		nodes = reg.Len()
	}
	observability.Pipeline().OnImportComplete(ctx, path, nodes, time.Since(start), err)
	return reg, err
}

// renderGraph produces the artifact bytes for the requested format. The
// second return reports whether the bytes came from the cache.
func renderGraph(ctx context.Context, reg *ir.Registry, opts *renderOpts) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	dot := nodelink.ToDOT(reg, nodelink.Options{
		Detailed:   opts.detailed,
		Tombstoned: opts.tombstoned,
	})
	if opts.format == "dot" {
		return []byte(dot), false, nil
	}

	c, err := newCache(opts.noCache)
	if err != nil {
		return nil, false, err
	}
	defer c.Close()

	key := artifactKey(dot, opts)

	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		logger.Debug("Artifact cache hit")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.format, reg.Len())

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", opts.format))
	spinner.Start()

	var data []byte
	switch opts.format {
	case "svg":
		data, err = nodelink.RenderSVG(dot)
	case "png":
		data, err = nodelink.RenderPNG(dot)
	default:
		err = fmt.Errorf("unknown format: %s", opts.format)
	}
	spinner.Stop()

	observability.Pipeline().OnRenderComplete(ctx, opts.format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, data, artifactTTL); err != nil {
		logger.Debugf("Artifact cache write failed: %v", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// artifactKey computes the cache key from the generated DOT source and the
// render options. The DOT text is a deterministic function of the graph
// structure, so it keys the cache without the registry's per-import
// instance tag.
func artifactKey(dot string, opts *renderOpts) string {
	return cache.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{
		Format:     opts.format,
		Detailed:   opts.detailed,
		Tombstoned: opts.tombstoned,
	})
}
