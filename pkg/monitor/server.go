package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const APIV1CheckEndpoint = "/api/v1/check"

// Server exposes health, metrics and on-demand checks over HTTP.
type Server struct {
	logger   logrus.FieldLogger
	checker  *Checker
	location *time.Location
	// concurrent requests for the same day share one check
	checkSingleFlight singleflight.Group
}

type requestLogger struct {
	logrus.FieldLogger
}

func (l *requestLogger) Print(v ...interface{}) {
	l.FieldLogger.Info(v...)
}

func NewServer(logger logrus.FieldLogger, checker *Checker) *Server {
	return &Server{
		logger:   logger.WithField("component", "api"),
		checker:  checker,
		location: time.Local,
	}
}

func (srv *Server) Router() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: &requestLogger{srv.logger}}))
	router.Use(middleware.Recoverer)

	router.Get("/healthy", srv.healthinessHandler)
	router.Handle("/metrics", promhttp.Handler())
	router.Get(APIV1CheckEndpoint, srv.checkHandler)
	return router
}

// ListenAndServe serves the router on addr until ctx is cancelled.
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}
	errCh := make(chan error, 1)
	go func() {
		srv.logger.Infof("HTTP API server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP API server error: %v", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.logger.Infof("shutting down HTTP API server")
	return httpServer.Shutdown(shutdownCtx)
}

func (srv *Server) healthinessHandler(w http.ResponseWriter, r *http.Request) {
	writeResponseAsJSON(srv.logger, w, http.StatusOK, statusResponse{Status: "ok"})
}

func (srv *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	logger := srv.logger.WithFields(logrus.Fields{"method": r.Method, "url": r.URL.String()})

	day := time.Now().In(srv.location)
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation(dayLayout, v, srv.location)
		if err != nil {
			writeErrorResponse(logger, w, http.StatusBadRequest, "invalid day %q, expected YYYY-MM-DD", v)
			return
		}
		day = parsed
	}

	key := day.Format(dayLayout)
	// shared by every waiting caller, so not tied to this request
	v, err, shared := srv.checkSingleFlight.Do(key, func() (interface{}, error) {
		defer srv.checkSingleFlight.Forget(key)
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return srv.checker.Check(ctx, day)
	})
	if shared {
		logger.Debugf("shared in-flight check for %s", key)
	}
	if err != nil {
		writeErrorResponse(logger, w, http.StatusInternalServerError, "check failed: %v", err)
		return
	}
	writeResponseAsJSON(logger, w, http.StatusOK, v)
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeErrorResponse(logger logrus.FieldLogger, w http.ResponseWriter, status int, message string, args ...interface{}) {
	msg := fmt.Sprintf(message, args...)
	writeResponseAsJSON(logger, w, status, errorResponse{Error: msg})
}

// writeResponseAsJSON attempts to marshal an arbitrary thing to JSON then write
// it to the http.ResponseWriter
func writeResponseAsJSON(logger logrus.FieldLogger, w http.ResponseWriter, code int, resp interface{}) {
	enc, err := json.Marshal(resp)
	if err != nil {
		logger.WithError(err).Error("failed JSON-encoding HTTP response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(enc); err != nil {
		logger.WithError(err).Error("failed writing HTTP response")
	}
}
