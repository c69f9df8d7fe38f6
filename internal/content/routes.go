package content

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the read-only content API under /api/content.
func RegisterRoutes(r chi.Router, catalog *Catalog) {
	r.Route("/api/content", func(r chi.Router) {
		r.Get("/hero", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, catalog.Hero())
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, catalog.Stats())
		})
		r.Get("/testimonials", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, catalog.Testimonials())
		})
		r.Get("/events", handleEvents(catalog))
		r.Get("/events/{slug}", handleEvent(catalog))
		r.Get("/departments", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, catalog.Departments())
		})
		r.Get("/departments/{slug}", handleDepartment(catalog))
	})
}

func handleEvents(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query().Get("year")
		if v == "" {
			writeJSON(w, http.StatusOK, catalog.Events())
			return
		}
		year, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be a number"})
			return
		}
		events := catalog.EventsByYear(year)
		if events == nil {
			events = []EventRecord{}
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func handleEvent(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := catalog.EventBySlug(chi.URLParam(r, "slug"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

func handleDepartment(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept, ok := catalog.DepartmentBySlug(chi.URLParam(r, "slug"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "department not found"})
			return
		}
		writeJSON(w, http.StatusOK, dept)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
