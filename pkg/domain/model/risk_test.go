package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

func TestNewRiskRecord(t *testing.T) {
	t.Run("derives levels from probability and severity", func(t *testing.T) {
		group := &model.Reference{ID: 1, Name: "Operations"}
		record, err := model.NewRiskRecord("R-001", newValidDraft(), group, nil)
		gt.NoError(t, err).Required()

		gt.Value(t, record.ID).Equal(types.RiskID("R-001"))
		gt.Value(t, record.InitialRiskLevel).Equal(types.RiskLevelVeryHigh)
		gt.Value(t, record.ResidualRiskLevel).Equal(types.RiskLevelMedium)
		gt.Value(t, record.CurrentRiskLevel).Equal(types.RiskLevelMedium)
		gt.Bool(t, record.LevelsConsistent()).True()
		gt.Value(t, record.GroupName()).Equal("Operations")
		gt.Value(t, record.PICName()).Equal("")
		gt.Number(t, record.InitialScore()).Equal(16)
		gt.Number(t, record.CurrentScore()).Equal(6)
	})

	t.Run("copies references", func(t *testing.T) {
		group := &model.Reference{ID: 1, Name: "Operations"}
		record, err := model.NewRiskRecord("R-001", newValidDraft(), group, nil)
		gt.NoError(t, err).Required()

		group.Name = "Changed"
		gt.Value(t, record.Group.Name).Equal("Operations")
	})

	t.Run("rejects invalid draft", func(t *testing.T) {
		d := newValidDraft()
		d.Probability = 0
		_, err := model.NewRiskRecord("R-001", d, nil, nil)
		gt.Error(t, err).Is(model.ErrOutOfRange)
	})

	t.Run("requires an id", func(t *testing.T) {
		_, err := model.NewRiskRecord("", newValidDraft(), nil, nil)
		gt.Value(t, err).NotNil()
	})
}

func TestRiskDraft_IgnoresClientLevels(t *testing.T) {
	body := `{
		"activity": "Scaffolding",
		"hazard": "Fall from height",
		"impactDescription": "Fracture",
		"riskDescription": "Worker falls",
		"probability": 1,
		"severity": 1,
		"residualProbability": 1,
		"residualSeverity": 1,
		"initialRiskLevel": "Very High",
		"residualRiskLevel": "Very High",
		"currentRiskLevel": "Very High",
		"initial_risk_level": "Very High"
	}`

	var d model.RiskDraft
	gt.NoError(t, json.Unmarshal([]byte(body), &d)).Required()

	record, err := model.NewRiskRecord("R-010", &d, nil, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, record.InitialRiskLevel).Equal(types.RiskLevelLow)
	gt.Value(t, record.ResidualRiskLevel).Equal(types.RiskLevelLow)
	gt.Value(t, record.CurrentRiskLevel).Equal(types.RiskLevelLow)
}

func TestRiskRecord_MarshalJSON(t *testing.T) {
	record, err := model.NewRiskRecord("R-002", newValidDraft(),
		&model.Reference{ID: 3, Name: "Operations"},
		&model.Reference{ID: 7, Name: "Warehouse"},
	)
	gt.NoError(t, err).Required()

	raw, err := json.Marshal(record)
	gt.NoError(t, err).Required()

	var out map[string]any
	gt.NoError(t, json.Unmarshal(raw, &out)).Required()

	gt.Value(t, out["id"]).Equal("R-002")
	gt.Value(t, out["group_name"]).Equal("Operations")
	gt.Value(t, out["group_id"]).Equal(float64(3))
	gt.Value(t, out["pic"]).Equal("Warehouse")
	gt.Value(t, out["pic_id"]).Equal(float64(7))
	gt.Value(t, out["aspect_safety"]).Equal(true)
	gt.Value(t, out["aspect_health"]).Equal(false)
	gt.Value(t, out["initial_risk_level"]).Equal("Very High")
	gt.Value(t, out["current_risk_level"]).Equal("Medium")
	gt.Value(t, out["target_date"]).Equal("2026-12-31")
	gt.Value(t, out["is_mah"]).Equal(false)
}

func TestRiskRecord_MarshalJSON_NullReferences(t *testing.T) {
	d := newValidDraft()
	d.TargetDate = ""
	record, err := model.NewRiskRecord("R-003", d, nil, nil)
	gt.NoError(t, err).Required()

	raw, err := json.Marshal(record)
	gt.NoError(t, err).Required()

	var out map[string]any
	gt.NoError(t, json.Unmarshal(raw, &out)).Required()
	gt.Value(t, out["group_name"]).Nil()
	gt.Value(t, out["pic"]).Nil()
	gt.Value(t, out["target_date"]).Nil()
}

func TestNewRiskSummary(t *testing.T) {
	high := newValidDraft()
	high.ResidualProbability = 5
	high.ResidualSeverity = 5
	high.MAH = true
	closed := newValidDraft()
	closed.Status = types.RiskStatusClosed

	var records []*model.RiskRecord
	for i, d := range []*model.RiskDraft{high, closed, newValidDraft()} {
		r, err := model.NewRiskRecord(types.NewRiskID(i+1), d, nil, nil)
		gt.NoError(t, err).Required()
		records = append(records, r)
	}

	s := model.NewRiskSummary(records)
	gt.Number(t, s.Total).Equal(3)
	gt.Number(t, s.MAH).Equal(1)
	gt.Number(t, s.ByLevel[types.RiskLevelVeryHigh]).Equal(1)
	gt.Number(t, s.ByLevel[types.RiskLevelMedium]).Equal(2)
	gt.Number(t, s.ByLevel[types.RiskLevelLow]).Equal(0)
	gt.Number(t, s.ByStatus[types.RiskStatusOpen]).Equal(2)
	gt.Number(t, s.ByStatus[types.RiskStatusClosed]).Equal(1)
	gt.Number(t, s.ByStatus[types.RiskStatusInProgress]).Equal(0)
}
