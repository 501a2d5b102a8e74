package prompt

import (
	"slices"

	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

var regulatoryFrameworks = map[types.Category][]string{
	types.CategoryBiomedical: {
		"Dual Use Research of Concern (DURC) Policy (US HHS/NIH)",
		"Select Agent Regulations (42 CFR Part 73)",
		"Cartagena Protocol on Biosafety",
		"WHO Responsible Life Sciences Research Framework",
		"EU Regulation on dual-use items (2021/821)",
	},
	types.CategorySemiconductor: {
		"Export Administration Regulations (EAR) - Commerce Control List",
		"CHIPS and Science Act compliance requirements",
		"Wassenaar Arrangement (dual-use technology controls)",
		"Foreign Direct Product Rule (FDPR)",
		"EU Dual-Use Regulation (2021/821)",
	},
	types.CategoryAIML: {
		"EU AI Act (Regulation 2024/1689) - High-risk AI systems",
		"US Executive Order 14110 on Safe, Secure AI",
		"NIST AI Risk Management Framework (AI RMF 1.0)",
		"OECD AI Principles",
		"G7 Hiroshima AI Process Code of Conduct",
	},
	types.CategoryCybersecurity: {
		"Wassenaar Arrangement - Intrusion software controls",
		"Computer Fraud and Abuse Act (CFAA) considerations",
		"EU NIS2 Directive",
		"NIST Cybersecurity Framework",
		"Vulnerability disclosure frameworks (ISO 29147)",
	},
	types.CategoryChemistry: {
		"Chemical Weapons Convention (CWC) Schedule lists",
		"Export Administration Regulations (EAR) - Chemical precursors",
		"REACH Regulation (EU) for hazardous substances",
		"Responsible Science Framework for chemistry",
		"Australia Group export controls",
	},
	types.CategoryNuclear: {
		"Nuclear Regulatory Commission (NRC) Part 810 regulations",
		"Nuclear Non-Proliferation Treaty (NPT) obligations",
		"IAEA safeguards and Code of Conduct",
		"Nuclear Suppliers Group guidelines",
		"Export Administration Regulations - Nuclear technology",
	},
}

// RegulatoryFrameworks returns the frameworks cited for a category. Unknown or empty
// categories get the AI/ML list.
func RegulatoryFrameworks(category types.Category) []string {
	if frameworks, ok := regulatoryFrameworks[category]; ok {
		return slices.Clone(frameworks)
	}
	return slices.Clone(regulatoryFrameworks[types.CategoryAIML])
}
