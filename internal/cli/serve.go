package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/irgraph/pkg/cache"
	"github.com/matzehuels/irgraph/pkg/io"
	"github.com/matzehuels/irgraph/pkg/ir"
	"github.com/matzehuels/irgraph/pkg/observability"
	"github.com/matzehuels/irgraph/pkg/render/nodelink"
)

// newServeCmd creates the serve command, which serves a graph snapshot
// over HTTP: an HTML page with the rendered diagram, the raw SVG, and the
// JSON snapshot itself.
func newServeCmd() *cobra.Command {
	var addr string
	var detailed bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a computation graph over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}

			reg, err := importGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), reg, addr, detailed, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include display pairs in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func runServe(ctx context.Context, reg *ir.Registry, addr string, detailed, noCache bool) error {
	logger := loggerFromContext(ctx)

	c, err := newCache(noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(reg, detailed, c),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printSuccess("Serving graph at http://%s", addr)
	printDetail("%d nodes, %d edges", reg.Len(), countEdges(reg))

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newRouter builds the HTTP routes for a loaded graph. The graph is
// immutable while it is served, so the DOT source and its artifact key are
// computed once and the rendered SVG is reused from the cache across
// requests and across restarts.
func newRouter(reg *ir.Registry, detailed bool, c cache.Cache) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	dot := nodelink.ToDOT(reg, nodelink.Options{Detailed: detailed})
	key := artifactKey(dot, &renderOpts{format: "svg", detailed: detailed})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, indexHTML, reg.Len(), countEdges(reg))
	})

	r.Get("/graph.svg", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		if data, hit, err := c.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Write(data)
			return
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")

		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, "svg", reg.Len())
		svg, err := nodelink.RenderSVG(dot)
		observability.Pipeline().OnRenderComplete(ctx, "svg", time.Since(start), err)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := c.Set(ctx, key, svg, artifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	})

	r.Get("/api/graph", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := io.WriteJSON(reg, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	return r
}

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>irgraph</title>
<style>
  body { font-family: sans-serif; margin: 2rem; color: #333; }
  header { margin-bottom: 1rem; }
  .stats { color: #888; font-size: 0.9rem; }
  img { max-width: 100%%; border: 1px solid #ddd; border-radius: 4px; }
</style>
</head>
<body>
<header>
  <h1>Computation graph</h1>
  <div class="stats">%d nodes &middot; %d edges &middot; <a href="/api/graph">JSON</a></div>
</header>
<img src="/graph.svg" alt="computation graph">
</body>
</html>
`
