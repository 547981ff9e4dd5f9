package database

import (
	"time"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// Hazards is declared on the parent so the foreign key is created on hazards
type categoryRow struct {
	CategoryID string      `gorm:"column:category_id;type:varchar(20);primaryKey"`
	Name       string      `gorm:"column:name;type:text;not null"`
	Hazards    []hazardRow `gorm:"foreignKey:CategoryID;references:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (categoryRow) TableName() string {
	return "hazard_categories"
}

type hazardRow struct {
	ID          string `gorm:"column:id;type:varchar(30);primaryKey"`
	CategoryID  string `gorm:"column:category_id;type:varchar(20);not null;index"`
	Description string `gorm:"column:description;type:text;not null"`
	Health      bool   `gorm:"column:health;not null;default:false"`
	Safety      bool   `gorm:"column:safety;not null;default:false"`
	Security    bool   `gorm:"column:security;not null;default:false"`
	Environment bool   `gorm:"column:environment;not null;default:false"`
	Social      bool   `gorm:"column:social;not null;default:false"`
	Sources     string `gorm:"column:sources;type:text"`
}

func (hazardRow) TableName() string {
	return "hazards"
}

type departmentRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
}

func (departmentRow) TableName() string {
	return "departments"
}

type groupRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
}

func (groupRow) TableName() string {
	return "groups"
}

type riskRow struct {
	ID                  string         `gorm:"column:id;type:varchar(20);primaryKey"`
	GroupID             *int64         `gorm:"column:group_id;index"`
	Group               *groupRow      `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Activity            string         `gorm:"column:activity;type:text;not null"`
	Hazard              string         `gorm:"column:hazard;type:text;not null"`
	Impact              int            `gorm:"column:impact"`
	ImpactDescription   string         `gorm:"column:impact_description;type:text"`
	RiskDescription     string         `gorm:"column:risk_description;type:text"`
	AspectHealth        bool           `gorm:"column:aspect_health;not null;default:false"`
	AspectSafety        bool           `gorm:"column:aspect_safety;not null;default:false"`
	AspectSecurity      bool           `gorm:"column:aspect_security;not null;default:false"`
	AspectEnvironment   bool           `gorm:"column:aspect_environment;not null;default:false"`
	AspectSocial        bool           `gorm:"column:aspect_social;not null;default:false"`
	ExistingControl     string         `gorm:"column:existing_control;type:text"`
	Probability         int            `gorm:"column:probability;not null"`
	Severity            int            `gorm:"column:severity;not null"`
	InitialRiskLevel    string         `gorm:"column:initial_risk_level;type:varchar(20);not null"`
	AdditionalControl   string         `gorm:"column:additional_control;type:text"`
	ResidualProbability int            `gorm:"column:residual_probability;not null"`
	ResidualSeverity    int            `gorm:"column:residual_severity;not null"`
	ResidualRiskLevel   string         `gorm:"column:residual_risk_level;type:varchar(20);not null"`
	PICID               *int64         `gorm:"column:pic_id;index"`
	PIC                 *departmentRow `gorm:"foreignKey:PICID;constraint:OnDelete:SET NULL"`
	TargetDate          string         `gorm:"column:target_date;type:varchar(10)"`
	Status              string         `gorm:"column:status;type:varchar(20);not null"`
	CurrentRiskLevel    string         `gorm:"column:current_risk_level;type:varchar(20);not null"`
	LegalStandardInfo   string         `gorm:"column:legal_standard_info;type:text"`
	IsMAH               bool           `gorm:"column:is_mah;not null;default:false"`
	CreatedAt           time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;not null"`
}

func (riskRow) TableName() string {
	return "risks"
}

// Models returns every table model in dependency order
func Models() []any {
	return []any{
		&categoryRow{},
		&hazardRow{},
		&departmentRow{},
		&groupRow{},
		&riskRow{},
	}
}

func toCategoryRow(c *model.Category) *categoryRow {
	return &categoryRow{CategoryID: c.ID.String(), Name: c.Name}
}

func (r *categoryRow) toModel() *model.Category {
	return &model.Category{ID: types.CategoryID(r.CategoryID), Name: r.Name}
}

func toHazardRow(h *model.Hazard) *hazardRow {
	return &hazardRow{
		ID:          h.ID.String(),
		CategoryID:  h.CategoryID.String(),
		Description: h.Description,
		Health:      h.Health,
		Safety:      h.Safety,
		Security:    h.Security,
		Environment: h.Environment,
		Social:      h.Social,
		Sources:     h.Sources,
	}
}

func (r *hazardRow) toModel() *model.Hazard {
	return &model.Hazard{
		ID:          types.HazardID(r.ID),
		CategoryID:  types.CategoryID(r.CategoryID),
		Description: r.Description,
		ImpactFlags: model.ImpactFlags{
			Health:      r.Health,
			Safety:      r.Safety,
			Security:    r.Security,
			Environment: r.Environment,
			Social:      r.Social,
		},
		Sources: r.Sources,
	}
}

func referenceID(ref *model.Reference) *int64 {
	if ref == nil {
		return nil
	}
	id := ref.ID
	return &id
}

func toRiskRow(r *model.RiskRecord) *riskRow {
	return &riskRow{
		ID:                  r.ID.String(),
		GroupID:             referenceID(r.Group),
		Activity:            r.Activity,
		Hazard:              r.Hazard,
		Impact:              r.Impact,
		ImpactDescription:   r.ImpactDescription,
		RiskDescription:     r.RiskDescription,
		AspectHealth:        r.Aspects.Health,
		AspectSafety:        r.Aspects.Safety,
		AspectSecurity:      r.Aspects.Security,
		AspectEnvironment:   r.Aspects.Environment,
		AspectSocial:        r.Aspects.Social,
		ExistingControl:     r.ExistingControl,
		Probability:         r.Probability,
		Severity:            r.Severity,
		InitialRiskLevel:    r.InitialRiskLevel.String(),
		AdditionalControl:   r.AdditionalControl,
		ResidualProbability: r.ResidualProbability,
		ResidualSeverity:    r.ResidualSeverity,
		ResidualRiskLevel:   r.ResidualRiskLevel.String(),
		PICID:               referenceID(r.PIC),
		TargetDate:          r.TargetDate,
		Status:              r.Status.String(),
		CurrentRiskLevel:    r.CurrentRiskLevel.String(),
		LegalStandardInfo:   r.LegalStandardInfo,
		IsMAH:               r.MAH,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// columns lists every writable column except the primary key and created_at
func (r *riskRow) columns() map[string]any {
	return map[string]any{
		"group_id":             r.GroupID,
		"activity":             r.Activity,
		"hazard":               r.Hazard,
		"impact":               r.Impact,
		"impact_description":   r.ImpactDescription,
		"risk_description":     r.RiskDescription,
		"aspect_health":        r.AspectHealth,
		"aspect_safety":        r.AspectSafety,
		"aspect_security":      r.AspectSecurity,
		"aspect_environment":   r.AspectEnvironment,
		"aspect_social":        r.AspectSocial,
		"existing_control":     r.ExistingControl,
		"probability":          r.Probability,
		"severity":             r.Severity,
		"initial_risk_level":   r.InitialRiskLevel,
		"additional_control":   r.AdditionalControl,
		"residual_probability": r.ResidualProbability,
		"residual_severity":    r.ResidualSeverity,
		"residual_risk_level":  r.ResidualRiskLevel,
		"pic_id":               r.PICID,
		"target_date":          r.TargetDate,
		"status":               r.Status,
		"current_risk_level":   r.CurrentRiskLevel,
		"legal_standard_info":  r.LegalStandardInfo,
		"is_mah":               r.IsMAH,
		"updated_at":           r.UpdatedAt,
	}
}

func (r *riskRow) toModel() *model.RiskRecord {
	record := &model.RiskRecord{
		ID:                types.RiskID(r.ID),
		Activity:          r.Activity,
		Hazard:            r.Hazard,
		Impact:            r.Impact,
		ImpactDescription: r.ImpactDescription,
		RiskDescription:   r.RiskDescription,
		Aspects: model.RiskAspects{
			Health:      r.AspectHealth,
			Safety:      r.AspectSafety,
			Security:    r.AspectSecurity,
			Environment: r.AspectEnvironment,
			Social:      r.AspectSocial,
		},
		ExistingControl:     r.ExistingControl,
		Probability:         r.Probability,
		Severity:            r.Severity,
		InitialRiskLevel:    types.RiskLevel(r.InitialRiskLevel),
		AdditionalControl:   r.AdditionalControl,
		ResidualProbability: r.ResidualProbability,
		ResidualSeverity:    r.ResidualSeverity,
		ResidualRiskLevel:   types.RiskLevel(r.ResidualRiskLevel),
		TargetDate:          r.TargetDate,
		Status:              types.RiskStatus(r.Status),
		CurrentRiskLevel:    types.RiskLevel(r.CurrentRiskLevel),
		LegalStandardInfo:   r.LegalStandardInfo,
		MAH:                 r.IsMAH,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
	if r.Group != nil {
		record.Group = &model.Reference{ID: r.Group.ID, Name: r.Group.Name}
	}
	if r.PIC != nil {
		record.PIC = &model.Reference{ID: r.PIC.ID, Name: r.PIC.Name}
	}
	return record
}
