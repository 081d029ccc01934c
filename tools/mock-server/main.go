// Package main implements a mock MercadoLibre API server for local
// development. It serves search, category discovery, catalog and users/me
// responses from a JSON fixture and issues rotating OAuth tokens, so the
// server can run without real MercadoLibre credentials.
package main

import (
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

//go:embed testdata/fixture.json
var defaultFixture []byte

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "", "path to a fixture file (default: built-in fixture)")
	expiresIn := flag.Int("expires-in", 21600, "access token lifetime in seconds")
	publicSearch := flag.Bool("public-search", true, "allow unauthenticated searches (false returns 403)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data := defaultFixture
	if *fixtureFile != "" {
		var err error
		data, err = os.ReadFile(*fixtureFile) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			logger.Error("failed to read fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
	}

	f, err := parseFixture(data)
	if err != nil {
		logger.Error("failed to load fixture", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(f.Items), "products", len(f.Products))

	srv := newMockServer(f, logger,
		withExpiresIn(*expiresIn),
		withPublicSearch(*publicSearch),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock MercadoLibre server", "addr", addr)

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, srv.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"message": message,
		"error":   code,
		"status":  status,
		"cause":   []string{},
	})
}
