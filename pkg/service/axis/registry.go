package axis

import (
	"maps"
	"slices"

	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

var defaultSections = map[string]string{
	"A": "Capability and Domain",
	"B": "Accessibility and Diffusion",
	"C": "Safeguards and Governance",
	"D": "Impact Scope",
	"E": "Uncertainty and Ambiguity",
	"F": "Regulatory Controls",
}

// Fallback returns the minimal axis set used when no usable configuration is available
func Fallback() []model.RiskAxis {
	return []model.RiskAxis{
		{ID: "A1", Name: "Dangerous Capability", Question: "Does this research enable dangerous capabilities?"},
		{ID: "B1", Name: "Accessibility", Question: "How accessible is this to non-experts?"},
		{ID: "C1", Name: "Safeguards", Question: "Are there adequate safeguards?", ReverseScored: true},
		{ID: "D1", Name: "Impact Scope", Question: "What is the potential harm scope?"},
	}
}

// Registry is a loaded, read-only axis set
type Registry struct {
	axes     []model.RiskAxis
	sections map[string]string
	rubric   map[string]string
	fallback bool
}

// NewRegistry builds a registry from a decoded configuration. Section names missing from
// the configuration fall back to the built-in A-F names.
func NewRegistry(cfg *model.AxisConfig) *Registry {
	sections := maps.Clone(defaultSections)
	maps.Copy(sections, cfg.Sections)

	return &Registry{
		axes:     slices.Clone(cfg.Axes),
		sections: sections,
		rubric:   maps.Clone(cfg.ScoringRubric),
	}
}

// FallbackRegistry returns a registry holding Fallback()
func FallbackRegistry() *Registry {
	r := NewRegistry(&model.AxisConfig{Universal: true, Axes: Fallback()})
	r.fallback = true
	return r
}

// Axes returns a copy of the ordered axis list
func (r *Registry) Axes() []model.RiskAxis {
	return slices.Clone(r.axes)
}

// Sections returns section code to display name
func (r *Registry) Sections() map[string]string {
	return maps.Clone(r.sections)
}

// SectionName returns the display name of a section, or the code itself when unnamed
func (r *Registry) SectionName(code string) string {
	if name, ok := r.sections[code]; ok {
		return name
	}
	return code
}

// Rubric returns the configured scoring rubric, which may be empty
func (r *Registry) Rubric() map[string]string {
	return maps.Clone(r.rubric)
}

// IsFallback reports whether the registry holds the built-in fallback axes
func (r *Registry) IsFallback() bool {
	return r.fallback
}
