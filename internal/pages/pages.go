package pages

import (
	"embed"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/savegress/taskflow/pkg/workerpool"
)

//go:embed static
var staticFS embed.FS

// Service serves the demo HTML pages. Every render goes through the
// worker pool, so a handful of slow requests ties up workers and the
// rest queue behind them.
type Service struct {
	pool       *workerpool.Pool
	dir        string // optional on-disk override for the embedded pages
	sleepDelay time.Duration
}

// NewService creates a pages service backed by the given pool
func NewService(pool *workerpool.Pool, dir string, sleepDelay time.Duration) *Service {
	return &Service{
		pool:       pool,
		dir:        dir,
		sleepDelay: sleepDelay,
	}
}

// Home serves the hello page
func (s *Service) Home(w http.ResponseWriter, r *http.Request) {
	s.serve(w, http.StatusOK, "hello.html", 0)
}

// Sleep serves the hello page after holding a worker for the configured
// delay
func (s *Service) Sleep(w http.ResponseWriter, r *http.Request) {
	s.serve(w, http.StatusOK, "hello.html", s.sleepDelay)
}

// NotFound serves the 404 page
func (s *Service) NotFound(w http.ResponseWriter, r *http.Request) {
	s.serve(w, http.StatusNotFound, "404.html", 0)
}

func (s *Service) serve(w http.ResponseWriter, status int, name string, delay time.Duration) {
	done := make(chan struct{})

	err := s.pool.Submit(func() {
		defer close(done)

		if delay > 0 {
			time.Sleep(delay)
		}

		body, err := s.readPage(name)
		if err != nil {
			log.Printf("Failed to read page %s: %v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(body)
	})
	if err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	<-done
}

func (s *Service) readPage(name string) ([]byte, error) {
	if s.dir != "" {
		return os.ReadFile(filepath.Join(s.dir, name))
	}
	return staticFS.ReadFile("static/" + name)
}
