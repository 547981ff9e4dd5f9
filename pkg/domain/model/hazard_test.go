package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

func TestNextHazardID(t *testing.T) {
	t.Run("first hazard of a category", func(t *testing.T) {
		gt.Value(t, model.NextHazardID("H-9", nil)).Equal(types.HazardID("H-9.01"))
	})

	t.Run("increments the highest sequence", func(t *testing.T) {
		hazards := []*model.Hazard{
			{ID: "H-9.01", CategoryID: "H-9"},
			{ID: "H-9.02", CategoryID: "H-9"},
		}
		gt.Value(t, model.NextHazardID("H-9", hazards)).Equal(types.HazardID("H-9.03"))
	})

	t.Run("uses the maximum not the count", func(t *testing.T) {
		hazards := []*model.Hazard{
			{ID: "H-9.01", CategoryID: "H-9"},
			{ID: "H-9.07", CategoryID: "H-9"},
		}
		gt.Value(t, model.NextHazardID("H-9", hazards)).Equal(types.HazardID("H-9.08"))
	})

	t.Run("ignores other categories and unparsable ids", func(t *testing.T) {
		hazards := []*model.Hazard{
			{ID: "H-90.05", CategoryID: "H-90"},
			{ID: "H-9.x", CategoryID: "H-9"},
		}
		gt.Value(t, model.NextHazardID("H-9", hazards)).Equal(types.HazardID("H-9.01"))
	})
}

func TestHazard_Validate(t *testing.T) {
	t.Run("valid without id", func(t *testing.T) {
		h := &model.Hazard{CategoryID: " H-1 ", Description: " Noise "}
		gt.NoError(t, h.Validate())
		gt.Value(t, h.CategoryID).Equal(types.CategoryID("H-1"))
		gt.Value(t, h.Description).Equal("Noise")
	})

	t.Run("id must match category", func(t *testing.T) {
		h := &model.Hazard{ID: "H-2.01", CategoryID: "H-1", Description: "Noise"}
		err := h.Validate()
		gt.Error(t, err).Is(model.ErrInvalidFormat)

		var verrs model.ValidationErrors
		gt.Bool(t, errors.As(err, &verrs)).True()
		gt.Array(t, verrs.Fields()).Equal([]string{"id"})
	})

	t.Run("missing description and bad category", func(t *testing.T) {
		h := &model.Hazard{CategoryID: "cat", Description: ""}
		var verrs model.ValidationErrors
		gt.Bool(t, errors.As(h.Validate(), &verrs)).True()
		gt.Array(t, verrs).Length(2)
	})
}

func TestHazard_JSON(t *testing.T) {
	body := `{"category_id":"H-1","description":"Dust","health":true,"social":true,"sources":"Grinding"}`
	var h model.Hazard
	gt.NoError(t, json.Unmarshal([]byte(body), &h)).Required()
	gt.Bool(t, h.Health).True()
	gt.Bool(t, h.Social).True()
	gt.Bool(t, h.Safety).False()

	raw, err := json.Marshal(&h)
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains(`"health":true`)
	gt.String(t, string(raw)).Contains(`"category_id":"H-1"`)
}

func TestImpactFilter_Match(t *testing.T) {
	flags := model.ImpactFlags{Health: true, Safety: true, Social: true}

	tests := []struct {
		name    string
		aspects []types.ImpactAspect
		want    bool
	}{
		{"empty filter", nil, true},
		{"single match", []types.ImpactAspect{types.ImpactHealth}, true},
		{"all requested set", []types.ImpactAspect{types.ImpactHealth, types.ImpactSafety}, true},
		{"one requested missing", []types.ImpactAspect{types.ImpactHealth, types.ImpactSecurity}, false},
		{"unknown aspect", []types.ImpactAspect{"finance"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.NewImpactFilter(tt.aspects...).Match(flags)).Equal(tt.want)
		})
	}
}

func TestCategory(t *testing.T) {
	t.Run("validate trims", func(t *testing.T) {
		c := &model.Category{ID: " H-4 ", Name: " Chemical "}
		gt.NoError(t, c.Validate())
		gt.Value(t, c.ID).Equal(types.CategoryID("H-4"))
		gt.Value(t, c.Name).Equal("Chemical")
	})

	t.Run("invalid id and name", func(t *testing.T) {
		c := &model.Category{ID: "C-4", Name: " "}
		var verrs model.ValidationErrors
		gt.Bool(t, errors.As(c.Validate(), &verrs)).True()
		gt.Array(t, verrs.Fields()).Equal([]string{"category_id", "name"})
	})

	t.Run("stats count flags of own hazards", func(t *testing.T) {
		c := &model.Category{ID: "H-1", Name: "Physical"}
		hazards := []*model.Hazard{
			{ID: "H-1.01", CategoryID: "H-1", ImpactFlags: model.ImpactFlags{Health: true, Safety: true}},
			{ID: "H-1.02", CategoryID: "H-1", ImpactFlags: model.ImpactFlags{Safety: true}},
			{ID: "H-2.01", CategoryID: "H-2", ImpactFlags: model.ImpactFlags{Safety: true}},
		}
		s := model.NewCategoryStats(c, hazards)
		gt.Number(t, s.HazardCount).Equal(2)
		gt.Number(t, s.HealthCount).Equal(1)
		gt.Number(t, s.SafetyCount).Equal(2)
		gt.Number(t, s.SocialCount).Equal(0)
	})
}
