package report

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/cszdzs/sonarqube/pkg/errors"
)

// reportFile is the on-disk JSON report layout. Dependency map keys are
// decimal file refs (JSON object keys are strings).
type reportFile struct {
	RootRef      int64                      `json:"root_ref"`
	Components   []Component                `json:"components"`
	Dependencies map[string][]RawDependency `json:"dependencies,omitempty"`
}

// LoadFile reads a JSON report from path.
func LoadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "report %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open report %s", path)
	}
	defer f.Close()

	var rf reportFile
	if err := json.NewDecoder(f).Decode(&rf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidReport, err, "parse report %s", path)
	}

	deps := make(map[int64][]RawDependency, len(rf.Dependencies))
	for key, list := range rf.Dependencies {
		ref, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidReport, "dependency key %q is not a component ref", key)
		}
		deps[ref] = list
	}

	return New(rf.RootRef, rf.Components, deps)
}
