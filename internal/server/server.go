package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/murraystephenson/TravelMap/internal/utils"
	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/sources"
)

// MapOptions configures the Leaflet map on the page.
type MapOptions struct {
	Center [2]float64
	Zoom   int
	Tiles  string
}

var DefaultMap = MapOptions{
	Center: [2]float64{0, 0},
	Zoom:   2,
	Tiles:  "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
}

type state struct {
	catalog *catalog.Catalog
	result  *sources.Result
	builtAt time.Time
}

type Server struct {
	Sources  []sources.Source
	Builder  *catalog.Builder
	Map      MapOptions
	Username string
	Password string

	mu    sync.RWMutex
	state *state
}

func New(srcs []sources.Source, b *catalog.Builder, user, pass string) *Server {
	return &Server{
		Sources:  srcs,
		Builder:  b,
		Map:      DefaultMap,
		Username: user,
		Password: pass,
	}
}

// Reload loads every source, builds a new catalog and swaps it in. Each
// entity's visual handle is its key, which is what the page binds layers by.
// A reload whose context ended keeps the current catalog and reports false.
func (s *Server) Reload(ctx context.Context) (*sources.Result, bool) {
	c, res := sources.BuildCatalog(ctx, s.Sources, s.Builder, utils.Log)
	if err := ctx.Err(); err != nil {
		utils.Log.Warnf("Reload abandoned, keeping the current catalog: %v", err)
		return res, false
	}
	c.BindAll(func(e *catalog.Entity) catalog.Handle { return e.Key() })

	s.mu.Lock()
	s.state = &state{catalog: c, result: res, builtAt: time.Now()}
	s.mu.Unlock()
	return res, true
}

func (s *Server) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		c, report := catalog.Build(nil, nil)
		return &state{catalog: c, result: &sources.Result{Report: report}}
	}
	return s.state
}

// ReloadEvery rebuilds the catalog on a fixed interval until ctx is done.
func (s *Server) ReloadEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			utils.Log.Debug("Periodic reload")
			s.Reload(ctx)
		}
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", s.basicAuth(s.handleCatalog))
	mux.HandleFunc("GET /api/years", s.basicAuth(s.handleYears))
	mux.HandleFunc("GET /api/visible", s.basicAuth(s.handleVisible))
	mux.HandleFunc("GET /api/report", s.basicAuth(s.handleReport))
	mux.HandleFunc("GET /api/status", s.basicAuth(s.handleStatus))
	mux.HandleFunc("POST /api/reload", s.basicAuth(s.handleReload))
	mux.HandleFunc("GET /{$}", s.basicAuth(s.handlePage))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
