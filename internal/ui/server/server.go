// Package server hosts the exam deck page and WebAssembly bundle during
// development and forwards the filter endpoints to the real API.
package server

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Its-donkey/examdeck/logging"
)

// Options configures the dev server.
type Options struct {
	Listen      string
	AssetsDir   string
	APIBase     string
	FiltersPath string
	ExamsPath   string
	Logger      *logging.Logger
}

// Server serves static assets and proxies update-filters and get-exams.
type Server struct {
	opts    Options
	assets  string
	handler http.Handler
}

// New validates opts and builds the handler tree.
func New(opts Options) (*Server, error) {
	root, err := filepath.Abs(opts.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve assets dir: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("assets directory %s is invalid: %v", root, err)
	}

	apiURL, err := url.Parse(strings.TrimSpace(opts.APIBase))
	if err != nil || apiURL.Scheme == "" || apiURL.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: %v", opts.APIBase, err)
	}

	mime.AddExtensionType(".wasm", "application/wasm")

	s := &Server{opts: opts, assets: root}
	mux := http.NewServeMux()
	mux.Handle("/"+strings.TrimPrefix(opts.FiltersPath, "/"), endpointProxy(apiURL, opts.FiltersPath))
	mux.Handle("/"+strings.TrimPrefix(opts.ExamsPath, "/"), endpointProxy(apiURL, opts.ExamsPath))
	mux.Handle("/main.wasm", s.assetHandler("main.wasm", "application/wasm"))
	mux.Handle("/wasm_exec.js", s.assetHandler("wasm_exec.js", "application/javascript"))
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/", s.staticHandler())

	s.handler = logging.NewHTTPLogger(opts.Logger, 0).Middleware(mux)
	return s, nil
}

// Handler returns the root handler, wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("server", "serving exam deck", map[string]any{
			"listen": s.opts.Listen,
			"assets": s.assets,
			"api":    s.opts.APIBase,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) assetHandler(name, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, filepath.Join(s.assets, name))
	})
}

func (s *Server) staticHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(s.assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "" {
			http.ServeFile(w, r, filepath.Join(s.assets, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// endpointProxy forwards POSTs to base joined with path. Only the path is
// rewritten; the form body and X-Request-ID pass through untouched.
func endpointProxy(base *url.URL, path string) http.Handler {
	target := *base
	target.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	target.RawPath = ""

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = target.Path
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		proxy.ServeHTTP(w, r)
	})
}
