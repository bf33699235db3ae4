// Package report exposes the analysis report consumed by the DSM engine: the
// component tree (files, directories, sub-projects, the project root) and the
// raw per-file dependency edges extracted upstream.
//
// The engine only depends on the [Reader] contract. How the edges were
// discovered is explicitly not this system's concern; the report is taken as
// ground truth.
package report

import (
	"github.com/google/uuid"

	"github.com/cszdzs/sonarqube/pkg/errors"
)

// Kind classifies a component in the tree.
type Kind string

// Component kinds, leaf to root.
const (
	KindFile       Kind = "FILE"
	KindDirectory  Kind = "DIRECTORY"
	KindSubProject Kind = "SUBPROJECT"
	KindProject    Kind = "PROJECT"
)

// valid reports whether k is one of the declared kinds.
func (k Kind) valid() bool {
	switch k {
	case KindFile, KindDirectory, KindSubProject, KindProject:
		return true
	}
	return false
}

// Component is one node of the component tree. Ref is the report-local
// integer identifier; UUID is the stable external identifier used when
// serializing matrices.
type Component struct {
	Ref      int64   `json:"ref"`
	Kind     Kind    `json:"kind"`
	Path     string  `json:"path"`
	UUID     string  `json:"uuid,omitempty"`
	Children []int64 `json:"children,omitempty"`
}

// RawDependency is one extracted file-level edge: the owning file depends on
// ToRef with the given weight.
type RawDependency struct {
	ToRef  int64 `json:"to"`
	Weight int   `json:"weight"`
}

// Reader provides sequential access to a report. Implementations must return
// stable data for repeated calls within one traversal.
type Reader interface {
	// Root returns the ref of the project root component.
	Root() int64

	// Component resolves one component by ref.
	Component(ref int64) (*Component, error)

	// FileDependencies returns the raw edges recorded for a FILE component,
	// or nil when the report carries none for it.
	FileDependencies(ref int64) ([]RawDependency, error)
}

// uuidNamespace salts deterministic UUID generation for reports that omit
// explicit component UUIDs. Fixed so re-analyses of the same tree produce the
// same identifiers.
var uuidNamespace = uuid.MustParse("76d41b97-4a30-4f7c-a6e8-1d6e97a2c0d4")

// Report is an in-memory report, the concrete Reader used by the CLI and by
// tests.
type Report struct {
	root       int64
	components map[int64]*Component
	deps       map[int64][]RawDependency
}

// New assembles a report from its parts. Components without a UUID get a
// deterministic one derived from their path. Validation is structural only:
// kinds must be declared ones and every child ref must resolve.
func New(root int64, components []Component, deps map[int64][]RawDependency) (*Report, error) {
	r := &Report{
		root:       root,
		components: make(map[int64]*Component, len(components)),
		deps:       deps,
	}
	for i := range components {
		c := components[i]
		if !c.Kind.valid() {
			return nil, errors.New(errors.ErrCodeInvalidReport, "component %d has unknown kind %q", c.Ref, c.Kind)
		}
		if c.UUID == "" {
			c.UUID = uuid.NewSHA1(uuidNamespace, []byte(c.Path)).String()
		}
		r.components[c.Ref] = &c
	}
	for _, c := range r.components {
		for _, child := range c.Children {
			if _, ok := r.components[child]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidReport, "component %d references unknown child %d", c.Ref, child)
			}
		}
	}
	if _, ok := r.components[root]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidReport, "root component %d not present", root)
	}
	return r, nil
}

// Root returns the project root ref.
func (r *Report) Root() int64 { return r.root }

// Component resolves ref or fails with COMPONENT_NOT_FOUND.
func (r *Report) Component(ref int64) (*Component, error) {
	c, ok := r.components[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeComponentNotFound, "no component with ref %d", ref)
	}
	return c, nil
}

// FileDependencies returns the raw edges recorded for ref. A missing entry is
// an empty stream, not an error.
func (r *Report) FileDependencies(ref int64) ([]RawDependency, error) {
	return r.deps[ref], nil
}

// FindByPath resolves a component by its project-relative path.
func (r *Report) FindByPath(path string) (*Component, error) {
	for _, c := range r.components {
		if c.Path == path {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeComponentNotFound, "no component with path %q", path)
}
