package api

import (
	"net/http"
	"os"
	"time"

	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewServer builds the http.Server that serves both the JSON/SSE API and
// (if staticDir is non-empty) a static file tree for the browser UI. It
// does not call ListenAndServe/Serve - the caller owns the listener and
// shutdown sequencing (see cmd/ccboard), mirroring how the teacher's
// server.go separates server construction from its startup goroutine.
func NewServer(addr string, store *datastore.Store, staticDir string) *http.Server {
	api := New(store)

	r := mux.NewRouter()
	api.MountRoutes(r)
	api.MountMetrics(r)

	if staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
		handlers.AllowedOrigins([]string{"*"}),
	))
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	logged := handlers.LoggingHandler(os.Stderr, recovered)

	return &http.Server{
		Addr:         addr,
		Handler:      logged,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the /api/events stream is long-lived
	}
}
