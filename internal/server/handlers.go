package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/murraystephenson/TravelMap/internal/utils"
	"github.com/murraystephenson/TravelMap/pkg/catalog"
	"github.com/murraystephenson/TravelMap/pkg/filter"
	"github.com/murraystephenson/TravelMap/pkg/sources"
	geojson "github.com/paulmach/go.geojson"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	fc := geojson.NewFeatureCollection()
	for _, e := range st.catalog.Entities() {
		f := e.Feature()
		if e.Kind == catalog.Region {
			f.SetProperty("style", filter.RegionStyle(e))
		}
		fc.AddFeature(f)
	}
	body, err := fc.MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(body)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, filter.YearOptions(s.current().catalog))
}

type VisibleResponse struct {
	Selection string   `json:"selection"`
	Visible   []string `json:"visible"`
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	layers := filter.NewLayerSet()
	sel := filter.NewController(s.current().catalog, layers).Select(r.URL.Query().Get("year"))

	resp := VisibleResponse{Selection: string(sel), Visible: []string{}}
	for _, h := range layers.Visible() {
		if key, ok := h.(string); ok {
			resp.Visible = append(resp.Visible, key)
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.current().result.Report
	issues := report.Issues
	if issues == nil {
		issues = []catalog.Issue{}
	}
	respondJSON(w, http.StatusOK, issues)
}

type StatusResponse struct {
	BuiltAt  time.Time        `json:"builtAt"`
	Entities int              `json:"entities"`
	Sources  []sources.Status `json:"sources"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.current()
	statuses := st.result.Statuses
	if statuses == nil {
		statuses = []sources.Status{}
	}
	respondJSON(w, http.StatusOK, StatusResponse{
		BuiltAt:  st.builtAt,
		Entities: st.catalog.Len(),
		Sources:  statuses,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	// The rebuild outlives a client that hangs up mid-request.
	res, swapped := s.Reload(context.WithoutCancel(r.Context()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sources":  res.Statuses,
		"issues":   len(res.Report.Issues),
		"reloaded": swapped,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := MapPage(s.Map, filter.YearOptions(s.current().catalog)).Render(w); err != nil {
		utils.Log.Errorf("Failed to render page: %v", err)
	}
}
