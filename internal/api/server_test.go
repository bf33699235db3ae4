package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cszdzs/sonarqube/pkg/dsm"
	"github.com/cszdzs/sonarqube/pkg/measure"
)

func testSink(t *testing.T) *measure.MemorySink {
	t.Helper()
	data := &dsm.Data{
		Components: []string{"uuid-a", "uuid-b"},
		Cells:      []dsm.CellData{{Row: 1, Col: 0, Weight: 2}},
	}
	raw, err := data.Encode()
	if err != nil {
		t.Fatalf("encode matrix: %v", err)
	}

	sink := measure.NewMemorySink()
	err = sink.Append(context.Background(), 4,
		measure.Binary(measure.DependencyMatrixKey, raw),
		measure.Numeric(measure.FileCyclesKey, 1),
		measure.Numeric(measure.FileTanglesKey, 2),
	)
	if err != nil {
		t.Fatalf("seed sink: %v", err)
	}
	return sink
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/healthz")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestListComponents(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Refs []int64 `json:"refs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if len(body.Refs) != 1 || body.Refs[0] != 4 {
		t.Errorf("refs = %v, want [4]", body.Refs)
	}
}

func TestGetMeasures_ExcludesMatrix(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/4/measures")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Ref      int64 `json:"ref"`
		Measures []struct {
			Metric string  `json:"metric"`
			Value  float64 `json:"value"`
		} `json:"measures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if body.Ref != 4 {
		t.Errorf("ref = %d, want 4", body.Ref)
	}
	if len(body.Measures) != 2 {
		t.Fatalf("got %d measures, want 2 (matrix elided)", len(body.Measures))
	}
	for _, m := range body.Measures {
		if m.Metric == measure.DependencyMatrixKey {
			t.Error("dsm measure leaked into the numeric listing")
		}
	}
}

func TestGetMeasures_UnknownRef(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/99/measures")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetMeasures_BadRef(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/abc/measures")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetMatrix(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/4/dsm")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data dsm.Data
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if len(data.Components) != 2 {
		t.Errorf("components = %v, want 2 entries", data.Components)
	}
	if len(data.Cells) != 1 || data.Cells[0].Weight != 2 {
		t.Errorf("cells = %+v, want one cell of weight 2", data.Cells)
	}
}

func TestGetMatrix_UnknownRef(t *testing.T) {
	rec := get(t, Handler(testSink(t)), "/api/components/99/dsm")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
