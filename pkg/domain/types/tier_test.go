package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

func TestTier_Rank(t *testing.T) {
	tiers := types.AllTiers()
	gt.A(t, tiers).Length(4)

	for i := 1; i < len(tiers); i++ {
		gt.Bool(t, tiers[i].Rank() > tiers[i-1].Rank()).
			Describef("%s should rank above %s", tiers[i], tiers[i-1]).
			True()
	}
	gt.Value(t, types.Tier("Severe").Rank()).Equal(-1)
}

func TestTier_IsEscalated(t *testing.T) {
	gt.Bool(t, types.TierLow.IsEscalated()).False()
	gt.Bool(t, types.TierMedium.IsEscalated()).False()
	gt.Bool(t, types.TierHigh.IsEscalated()).True()
	gt.Bool(t, types.TierCritical.IsEscalated()).True()
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Tier
		wantErr bool
	}{
		{name: "low", input: "Low", want: types.TierLow},
		{name: "critical", input: "Critical", want: types.TierCritical},
		{name: "wrong case", input: "critical", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseTier(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestParseDissemination(t *testing.T) {
	for _, d := range types.AllDisseminations() {
		got, err := types.ParseDissemination(d.String())
		gt.NoError(t, err)
		gt.V(t, got).Equal(d)
	}

	_, err := types.ParseDissemination("Open-source")
	gt.Error(t, err)
}

func TestParseAudience(t *testing.T) {
	for _, a := range types.AllAudiences() {
		got, err := types.ParseAudience(a.String())
		gt.NoError(t, err)
		gt.V(t, got).Equal(a)
	}

	_, err := types.ParseAudience("everyone")
	gt.Error(t, err)
}
