package dsm

import (
	"encoding/json"
	"fmt"
)

// CellData is one non-zero matrix cell in sorted order. Feedback marks cells
// sitting above the diagonal: the residual cyclic dependencies the solver
// chose to cut.
type CellData struct {
	Row      int  `json:"row" bson:"row"`
	Col      int  `json:"col" bson:"col"`
	Weight   int  `json:"weight" bson:"weight"`
	Feedback bool `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// Data is the serializable matrix: component UUIDs in matrix order plus the
// sparse non-zero cells. It is the value encoded into the dsm measure.
type Data struct {
	Components []string   `json:"components" bson:"components"`
	Cells      []CellData `json:"cells" bson:"cells"`
}

// Build maps the matrix vertex order to stable external identifiers through
// resolve and extracts the sparse cell set row-major. Resolution failures
// abort the build; a matrix with unidentifiable components must not be
// persisted.
func Build(m *Matrix, resolve func(ref int64) (string, error)) (*Data, error) {
	data := &Data{Components: make([]string, m.Size())}
	for i, ref := range m.Vertices() {
		id, err := resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("resolve component %d: %w", ref, err)
		}
		data.Components[i] = id
	}

	for row := 0; row < m.Size(); row++ {
		for col := 0; col < m.Size(); col++ {
			weight, feedback, ok := m.Cell(row, col)
			if !ok || weight == 0 {
				continue
			}
			data.Cells = append(data.Cells, CellData{Row: row, Col: col, Weight: weight, Feedback: feedback})
		}
	}
	return data, nil
}

// Encode serializes the matrix data to the byte form stored as a measure.
func (d *Data) Encode() ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode dsm: %w", err)
	}
	return raw, nil
}

// Decode parses bytes produced by [Data.Encode].
func Decode(raw []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dsm: %w", err)
	}
	return &d, nil
}
