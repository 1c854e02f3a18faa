package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	w.Header().Set("ETag", e.tag)
	writeJSON(w, http.StatusOK, e.dash)
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	w.Header().Set("ETag", e.tag)
	writeJSON(w, http.StatusOK, e.dash.Finance)
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "domain")
	table, skipped, found := lookupDomain(e.dash, name)
	switch {
	case skipped != nil:
		writeError(w, http.StatusUnprocessableEntity, "domain "+name+" unavailable: "+skipped.Reason)
	case !found:
		writeError(w, http.StatusNotFound, "unknown domain: "+name)
	default:
		w.Header().Set("ETag", e.tag)
		writeJSON(w, http.StatusOK, table)
	}
}

func (s *Server) handleDomainKPIs(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "domain")
	table, skipped, found := lookupDomain(e.dash, name)
	switch {
	case skipped != nil:
		writeError(w, http.StatusUnprocessableEntity, "domain "+name+" unavailable: "+skipped.Reason)
	case !found:
		writeError(w, http.StatusNotFound, "unknown domain: "+name)
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"functional":  table.KPIOptions,
			"financial":   models.FinancialColumns,
			"unavailable": table.Unavailable,
		})
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	source, ok := s.resolveSource(w, r)
	if !ok {
		return
	}
	e, err := s.cache.refresh(r.Context(), source)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"source": source,
		"etag":   e.tag,
		"loaded": e.loadedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// entry resolves the request's source and returns its cached dashboard,
// building it on first use.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*cacheEntry, bool) {
	source, ok := s.resolveSource(w, r)
	if !ok {
		return nil, false
	}
	e, err := s.cache.get(r.Context(), source)
	if err != nil {
		writeBuildError(w, err)
		return nil, false
	}
	return e, true
}

func (s *Server) resolveSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = s.cfg.DefaultSource
	}
	if source == "" {
		writeError(w, http.StatusBadRequest, "no source: pass ?source= or configure a default")
		return "", false
	}
	return source, true
}

func lookupDomain(dash *models.Dashboard, name string) (*models.DomainTable, *models.SkippedDomain, bool) {
	if table, ok := dash.Domain(name); ok {
		return table, nil, true
	}
	for i := range dash.Skipped {
		if strings.EqualFold(dash.Skipped[i].Domain, name) {
			return nil, &dash.Skipped[i], true
		}
	}
	return nil, nil, false
}

func writeBuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, models.ErrSchemaMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
