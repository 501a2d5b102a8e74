package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   types.Category
		wantOK bool
	}{
		{name: "canonical", input: "biomedical", want: types.CategoryBiomedical, wantOK: true},
		{name: "canonical upper case", input: "AI_ML", want: types.CategoryAIML, wantOK: true},
		{name: "surrounding spaces", input: "  nuclear ", want: types.CategoryNuclear, wantOK: true},
		{name: "synonym security", input: "security", want: types.CategoryCybersecurity, wantOK: true},
		{name: "synonym ml", input: "ML", want: types.CategoryAIML, wantOK: true},
		{name: "synonym materials", input: "materials", want: types.CategoryChemistry, wantOK: true},
		{name: "synonym radiological", input: "Radiological", want: types.CategoryNuclear, wantOK: true},
		{name: "synonym ai_hardware", input: "ai_hardware", want: types.CategorySemiconductor, wantOK: true},
		{name: "synonym life_sciences", input: "life_sciences", want: types.CategoryBiomedical, wantOK: true},
		{name: "unknown", input: "astronomy", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := types.NormalizeCategory(tt.input)
			gt.Value(t, ok).Equal(tt.wantOK)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestFindCategory(t *testing.T) {
	got, ok := types.FindCategory("Category ID: Cybersecurity.")
	gt.Bool(t, ok).True()
	gt.Value(t, got).Equal(types.CategoryCybersecurity)

	_, ok = types.FindCategory("I am not sure")
	gt.Bool(t, ok).False()
}

func TestAllCategories(t *testing.T) {
	categories := types.AllCategories()
	gt.A(t, categories).Length(6)
	for _, c := range categories {
		gt.Bool(t, c.IsValid()).True()
	}
}
