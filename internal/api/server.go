// Package api exposes computed measures over a small read-only HTTP surface.
// It serves whatever the measure store holds; it never triggers computation.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cszdzs/sonarqube/pkg/dsm"
	"github.com/cszdzs/sonarqube/pkg/measure"
)

// MeasureReader is the read model the API serves from. The in-memory
// measure sink satisfies it.
type MeasureReader interface {
	Refs() []int64
	ByRef(ref int64) []measure.Measure
	Find(ref int64, metricKey string) (measure.Measure, bool)
}

// Handler builds the HTTP routes over measures.
func Handler(measures MeasureReader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Route("/api/components", func(r chi.Router) {
		r.Get("/", listComponents(measures))
		r.Get("/{ref}/measures", getMeasures(measures))
		r.Get("/{ref}/dsm", getMatrix(measures))
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func listComponents(measures MeasureReader) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"refs": measures.Refs()})
	}
}

// measureView is the wire shape of one measure. Byte values are elided;
// the dsm endpoint serves the decoded matrix instead.
type measureView struct {
	MetricKey string  `json:"metric"`
	Value     float64 `json:"value"`
}

func getMeasures(measures MeasureReader) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ref, ok := parseRef(w, req)
		if !ok {
			return
		}
		stored := measures.ByRef(ref)
		if len(stored) == 0 {
			writeError(w, http.StatusNotFound, "no measures for component")
			return
		}
		views := make([]measureView, 0, len(stored))
		for _, m := range stored {
			if m.MetricKey == measure.DependencyMatrixKey {
				continue
			}
			views = append(views, measureView{MetricKey: m.MetricKey, Value: m.Value})
		}
		writeJSON(w, http.StatusOK, map[string]any{"ref": ref, "measures": views})
	}
}

func getMatrix(measures MeasureReader) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ref, ok := parseRef(w, req)
		if !ok {
			return
		}
		m, found := measures.Find(ref, measure.DependencyMatrixKey)
		if !found {
			writeError(w, http.StatusNotFound, "no matrix for component")
			return
		}
		data, err := dsm.Decode(m.Data)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "stored matrix is unreadable")
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func parseRef(w http.ResponseWriter, req *http.Request) (int64, bool) {
	ref, err := strconv.ParseInt(chi.URLParam(req, "ref"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ref must be an integer")
		return 0, false
	}
	return ref, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
