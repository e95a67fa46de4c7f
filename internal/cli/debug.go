package cli

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// debugLogger mirrors cmd/inmapweb's logrus.StandardLogger() setup: a
// text formatter with full timestamps, used only for the optional debug
// HTTP endpoint's request logging (spec.md carries no requirement for
// structured request logs on the simulator's main path, which sticks to
// plain log.Printf status lines per log.go).
var debugLogger = func() *logrus.Logger {
	l := logrus.StandardLogger()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return l
}()

// startDebugServer serves a single /status endpoint reporting that the
// process is alive, for operators running long unattended simulations to
// poll without tailing logs. It runs detached; a failure to bind is
// logged but never aborts the simulation itself.
func startDebugServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		debugLogger.WithFields(logrus.Fields{"remote": r.RemoteAddr, "path": r.URL.Path}).Debug("status request")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("firestarr: running\n"))
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			debugLogger.WithError(err).Warn("debug status server stopped")
		}
	}()
}
