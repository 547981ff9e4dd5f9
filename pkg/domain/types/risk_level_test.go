package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		probability int
		severity    int
		want        types.RiskLevel
	}{
		{"minimum", 1, 1, types.RiskLevelLow},
		{"score 4 upper bound of low", 2, 2, types.RiskLevelLow},
		{"score 5 lower bound of medium", 1, 5, types.RiskLevelMedium},
		{"score 9 upper bound of medium", 3, 3, types.RiskLevelMedium},
		{"score 10 lower bound of high", 2, 5, types.RiskLevelHigh},
		{"score 15 upper bound of high", 3, 5, types.RiskLevelHigh},
		{"score 16", 4, 4, types.RiskLevelVeryHigh},
		{"maximum", 5, 5, types.RiskLevelVeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.Classify(tt.probability, tt.severity)).Equal(tt.want)
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	for p := 1; p <= 5; p++ {
		for s := 1; s < 5; s++ {
			lower := types.Classify(p, s).Rank()
			higher := types.Classify(p, s+1).Rank()
			if higher < lower {
				t.Errorf("classify(%d,%d) ranks below classify(%d,%d)", p, s+1, p, s)
			}
			lower = types.Classify(s, p).Rank()
			higher = types.Classify(s+1, p).Rank()
			if higher < lower {
				t.Errorf("classify(%d,%d) ranks below classify(%d,%d)", s+1, p, s, p)
			}
		}
	}
}

func TestClassify_VeryHighOnlyAtTopCorner(t *testing.T) {
	var count int
	for p := 1; p <= 5; p++ {
		for s := 1; s <= 5; s++ {
			if types.Classify(p, s) == types.RiskLevelVeryHigh {
				count++
			}
		}
	}
	// 4x4, 4x5, 5x4, 5x5
	gt.Number(t, count).Equal(4)
}

func TestRiskLevel_Rank(t *testing.T) {
	levels := types.AllRiskLevels()
	for i, l := range levels {
		gt.Number(t, l.Rank()).Equal(i + 1)
		gt.Bool(t, l.IsValid()).True()
	}
	gt.Number(t, types.RiskLevel("Extreme").Rank()).Equal(0)
	gt.Bool(t, types.RiskLevel("").IsValid()).False()
}
