package model

// RiskAxis is one scored dimension of dual-use risk. Axes are configuration and are
// never mutated after loading.
type RiskAxis struct {
	ID            string `json:"id" toml:"id"`
	Name          string `json:"name" toml:"name"`
	Question      string `json:"question" toml:"question"`
	Section       string `json:"section,omitempty" toml:"section"`
	ReverseScored bool   `json:"reverse_scored" toml:"reverse_scored"`
}

// AxisConfig is the axis configuration file structure
type AxisConfig struct {
	Universal          bool              `json:"universal" toml:"universal"`
	Axes               []RiskAxis        `json:"axes" toml:"axes"`
	Sections           map[string]string `json:"sections" toml:"sections"`
	ScoringRubric      map[string]string `json:"scoring_rubric" toml:"scoring_rubric"`
	ReverseScoringNote string            `json:"reverse_scoring_note,omitempty" toml:"reverse_scoring_note"`
}

// AxisInfo is the subset of an axis recorded on an assessment for auditability
type AxisInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Section       string `json:"section,omitempty"`
	ReverseScored bool   `json:"reverse_scored"`
}

// Info returns the audit record of the axis
func (a RiskAxis) Info() AxisInfo {
	return AxisInfo{
		ID:            a.ID,
		Name:          a.Name,
		Section:       a.Section,
		ReverseScored: a.ReverseScored,
	}
}

// AxisInfos converts axes to their audit records, preserving order
func AxisInfos(axes []RiskAxis) []AxisInfo {
	infos := make([]AxisInfo, len(axes))
	for i, a := range axes {
		infos[i] = a.Info()
	}
	return infos
}

// AxisIDs returns axis ids in order
func AxisIDs(axes []RiskAxis) []string {
	ids := make([]string, len(axes))
	for i, a := range axes {
		ids[i] = a.ID
	}
	return ids
}
