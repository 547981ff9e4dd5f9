package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

func TestCategoryID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.CategoryID
		wantErr bool
	}{
		{"valid single digit", "H-1", false},
		{"valid multiple digits", "H-120", false},
		{"empty", "", true},
		{"lowercase prefix", "h-1", true},
		{"missing number", "H-", true},
		{"hazard id", "H-1.01", true},
		{"spaces", "H- 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CategoryID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHazardID(t *testing.T) {
	t.Run("NewHazardID pads sequence to two digits", func(t *testing.T) {
		gt.Value(t, types.NewHazardID("H-9", 1)).Equal(types.HazardID("H-9.01"))
		gt.Value(t, types.NewHazardID("H-9", 12)).Equal(types.HazardID("H-9.12"))
		gt.Value(t, types.NewHazardID("H-9", 105)).Equal(types.HazardID("H-9.105"))
	})

	t.Run("Category and Sequence split on the last dot", func(t *testing.T) {
		id := types.HazardID("H-3.07")
		gt.Value(t, id.Category()).Equal(types.CategoryID("H-3"))
		n, ok := id.Sequence()
		gt.Bool(t, ok).True()
		gt.Number(t, n).Equal(7)
	})

	t.Run("Sequence rejects non numeric suffix", func(t *testing.T) {
		_, ok := types.HazardID("H-3.x").Sequence()
		gt.Bool(t, ok).False()
		_, ok = types.HazardID("H-3").Sequence()
		gt.Bool(t, ok).False()
	})

	tests := []struct {
		name     string
		id       types.HazardID
		category types.CategoryID
		wantErr  bool
	}{
		{"matching category", "H-1.01", "H-1", false},
		{"long sequence", "H-1.100", "H-1", false},
		{"other category", "H-2.01", "H-1", true},
		{"prefix only match", "H-10.01", "H-1", true},
		{"no sequence", "H-1.", "H-1", true},
		{"empty", "", "H-1", true},
	}
	for _, tt := range tests {
		t.Run("Validate "+tt.name, func(t *testing.T) {
			err := tt.id.Validate(tt.category)
			if (err != nil) != tt.wantErr {
				t.Errorf("HazardID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRiskID(t *testing.T) {
	gt.Value(t, types.NewRiskID(1)).Equal(types.RiskID("R-001"))
	gt.Value(t, types.NewRiskID(42)).Equal(types.RiskID("R-042"))
	gt.Value(t, types.NewRiskID(1234)).Equal(types.RiskID("R-1234"))
}

func TestImpactAspect(t *testing.T) {
	for _, a := range types.AllImpactAspects() {
		parsed, err := types.ParseImpactAspect(a.String())
		gt.NoError(t, err)
		gt.Value(t, parsed).Equal(a)
	}

	_, err := types.ParseImpactAspect("finance")
	gt.Value(t, err).NotNil()
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    types.ExportFormat
		wantErr bool
	}{
		{"", types.ExportFormatCSV, false},
		{"csv", types.ExportFormatCSV, false},
		{"pdf", types.ExportFormatPDF, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseExportFormat(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}

	gt.Value(t, types.ExportFormatPDF.ContentType()).Equal("application/pdf")
	gt.Value(t, types.ExportFormatCSV.ContentType()).Equal("text/csv")
}
