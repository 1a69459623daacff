// Package chi serves the discovery job API over HTTP using the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/prodfind"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server shuts down.
const ShutdownTimeout = 10 * time.Second

// DefaultListLimit caps GET /api/jobs when no limit is given.
const DefaultListLimit = 50

// JobQueue schedules jobs for background execution.
type JobQueue interface {
	Enqueue(ctx context.Context, id string) error
}

// JobRunner executes a job and returns it finished.
type JobRunner interface {
	Run(ctx context.Context, id string) (*prodfind.Job, error)
}

// Server is the HTTP front end of the job service.
type Server struct {
	router chi.Router

	Jobs    prodfind.JobService
	Queue   JobQueue
	Runner  JobRunner
	Metrics http.Handler // optional, served at /metrics
	Logger  *slog.Logger // optional
}

// NewServer returns a Server with its routes registered.
// Services must be assigned before the server handles requests.
func NewServer() *Server {
	s := &Server{router: chi.NewRouter()}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/jobs", s.handleJobCreate)
		r.Get("/jobs", s.handleJobList)
		r.Get("/jobs/{id}", s.handleJobView)
		r.Post("/sync-jobs", s.handleSyncJobCreate)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.logger().Info("serving job API", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

// jobRequest is the body of the job submission endpoints.
type jobRequest struct {
	URL string `json:"url"`
}

// decodeJob reads a job submission and creates the job.
func (s *Server) decodeJob(r *http.Request) (*prodfind.Job, error) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, prodfind.Errorf(prodfind.EINVALID, "invalid request body")
	}

	job := &prodfind.Job{URL: req.URL}
	if err := s.Jobs.CreateJob(r.Context(), job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Server) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	job, err := s.decodeJob(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.Queue.Enqueue(r.Context(), job.ID); err != nil {
		if ferr := s.Jobs.FailJob(context.WithoutCancel(r.Context()), job.ID, "job could not be queued"); ferr != nil {
			s.logger().Error("marking unqueued job failed", "job", job.ID, "err", ferr)
		}
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleSyncJobCreate(w http.ResponseWriter, r *http.Request) {
	job, err := s.decodeJob(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	job, err = s.Runner.Run(r.Context(), job.ID)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseJobFilter(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	jobs, err := s.Jobs.FindJobs(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobView(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.FindJobByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// parseJobFilter reads the status, limit and offset query parameters.
func parseJobFilter(r *http.Request) (prodfind.JobFilter, error) {
	q := r.URL.Query()
	filter := prodfind.JobFilter{Limit: DefaultListLimit}

	if v := q.Get("status"); v != "" {
		status := prodfind.JobStatus(v)
		if !status.Valid() {
			return filter, prodfind.Errorf(prodfind.EINVALID, "unknown status %q", v)
		}
		filter.Status = &status
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit"), "limit", DefaultListLimit); err != nil {
		return filter, err
	}
	if filter.Offset, err = intParam(q.Get("offset"), "offset", 0); err != nil {
		return filter, err
	}
	return filter, nil
}

func intParam(v, name string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, prodfind.Errorf(prodfind.EINVALID, "%s must be a non-negative integer", name)
	}
	return n, nil
}
