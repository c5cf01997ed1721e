// Package profiling starts the pprof endpoint and Pyroscope continuous profiling.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

const pprofReadHeaderTimeout = 5 * time.Second

// PprofMux returns a mux serving the /debug/pprof endpoints.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer serves pprof on localhost:port in the background. It only
// binds to localhost so profiles are never exposed externally.
func StartPprofServer(port int, log infralogger.Logger) *http.Server {
	addr := "localhost:" + strconv.Itoa(port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           PprofMux(),
		ReadHeaderTimeout: pprofReadHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server", infralogger.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", infralogger.Error(err))
		}
	}()

	return srv
}
