package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

// RiskAspects marks the impact aspects a risk touches
type RiskAspects struct {
	Health      bool `json:"health"`
	Safety      bool `json:"safety"`
	Security    bool `json:"security"`
	Environment bool `json:"environment"`
	Social      bool `json:"social"`
}

// RiskDraft is the client supplied form of a risk. It has no level fields:
// levels sent by a client are dropped when the body is decoded.
type RiskDraft struct {
	ID                  types.RiskID     `json:"id,omitempty"`
	Group               string           `json:"group"`
	Activity            string           `json:"activity" validate:"required"`
	Hazard              string           `json:"hazard" validate:"required"`
	Impact              int              `json:"impact" validate:"omitempty,min=1,max=5"`
	ImpactDescription   string           `json:"impactDescription" validate:"required"`
	RiskDescription     string           `json:"riskDescription" validate:"required"`
	Aspects             RiskAspects      `json:"aspects"`
	ExistingControl     string           `json:"existingControl"`
	Probability         int              `json:"probability" validate:"min=1,max=5"`
	Severity            int              `json:"severity" validate:"min=1,max=5"`
	AdditionalControl   string           `json:"additionalControl"`
	ResidualProbability int              `json:"residualProbability" validate:"min=1,max=5"`
	ResidualSeverity    int              `json:"residualSeverity" validate:"min=1,max=5"`
	PIC                 string           `json:"pic"`
	TargetDate          string           `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
	Status              types.RiskStatus `json:"status" validate:"riskstatus"`
	LegalStandardInfo   string           `json:"legalStandardInfo"`
	MAH                 bool             `json:"mah"`
}

// Normalize trims every text field and defaults an empty status to Open
func (d *RiskDraft) Normalize() {
	d.ID = types.RiskID(strings.TrimSpace(string(d.ID)))
	d.Group = strings.TrimSpace(d.Group)
	d.Activity = strings.TrimSpace(d.Activity)
	d.Hazard = strings.TrimSpace(d.Hazard)
	d.ImpactDescription = strings.TrimSpace(d.ImpactDescription)
	d.RiskDescription = strings.TrimSpace(d.RiskDescription)
	d.ExistingControl = strings.TrimSpace(d.ExistingControl)
	d.AdditionalControl = strings.TrimSpace(d.AdditionalControl)
	d.PIC = strings.TrimSpace(d.PIC)
	d.TargetDate = strings.TrimSpace(d.TargetDate)
	d.Status = types.RiskStatus(strings.TrimSpace(string(d.Status))).Normalize()
	d.LegalStandardInfo = strings.TrimSpace(d.LegalStandardInfo)
}

// ValidateRiskDraft normalizes the draft in place and checks its fields.
// The returned error is ValidationErrors when the draft itself is invalid.
func ValidateRiskDraft(d *RiskDraft) error {
	if d == nil {
		return goerr.New("risk draft is nil")
	}
	d.Normalize()
	return validateStruct(d)
}

// RiskRecord is a stored risk. Its level fields are only set by NewRiskRecord.
type RiskRecord struct {
	ID                  types.RiskID
	Group               *Reference
	Activity            string
	Hazard              string
	Impact              int
	ImpactDescription   string
	RiskDescription     string
	Aspects             RiskAspects
	ExistingControl     string
	Probability         int
	Severity            int
	InitialRiskLevel    types.RiskLevel
	AdditionalControl   string
	ResidualProbability int
	ResidualSeverity    int
	ResidualRiskLevel   types.RiskLevel
	PIC                 *Reference
	TargetDate          string
	Status              types.RiskStatus
	CurrentRiskLevel    types.RiskLevel
	LegalStandardInfo   string
	MAH                 bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewRiskRecord validates the draft and builds the record with derived levels.
// group and pic are the resolved references, nil when unresolved.
func NewRiskRecord(id types.RiskID, d *RiskDraft, group, pic *Reference) (*RiskRecord, error) {
	if err := ValidateRiskDraft(d); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, goerr.New("risk ID is required")
	}

	residual := types.Classify(d.ResidualProbability, d.ResidualSeverity)
	return &RiskRecord{
		ID:                  id,
		Group:               group.Copy(),
		Activity:            d.Activity,
		Hazard:              d.Hazard,
		Impact:              d.Impact,
		ImpactDescription:   d.ImpactDescription,
		RiskDescription:     d.RiskDescription,
		Aspects:             d.Aspects,
		ExistingControl:     d.ExistingControl,
		Probability:         d.Probability,
		Severity:            d.Severity,
		InitialRiskLevel:    types.Classify(d.Probability, d.Severity),
		AdditionalControl:   d.AdditionalControl,
		ResidualProbability: d.ResidualProbability,
		ResidualSeverity:    d.ResidualSeverity,
		ResidualRiskLevel:   residual,
		PIC:                 pic.Copy(),
		TargetDate:          d.TargetDate,
		Status:              d.Status,
		CurrentRiskLevel:    residual,
		LegalStandardInfo:   d.LegalStandardInfo,
		MAH:                 d.MAH,
	}, nil
}

// InitialScore is probability x severity before additional controls
func (r *RiskRecord) InitialScore() int {
	return r.Probability * r.Severity
}

// CurrentScore is the residual probability x severity
func (r *RiskRecord) CurrentScore() int {
	return r.ResidualProbability * r.ResidualSeverity
}

// LevelsConsistent reports whether the stored levels match their inputs
func (r *RiskRecord) LevelsConsistent() bool {
	residual := types.Classify(r.ResidualProbability, r.ResidualSeverity)
	return r.InitialRiskLevel == types.Classify(r.Probability, r.Severity) &&
		r.ResidualRiskLevel == residual &&
		r.CurrentRiskLevel == residual
}

// GroupName returns the group name or empty
func (r *RiskRecord) GroupName() string {
	if r.Group == nil {
		return ""
	}
	return r.Group.Name
}

// PICName returns the department name or empty
func (r *RiskRecord) PICName() string {
	if r.PIC == nil {
		return ""
	}
	return r.PIC.Name
}

// Copy returns a deep copy of the record
func (r *RiskRecord) Copy() *RiskRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Group = r.Group.Copy()
	cp.PIC = r.PIC.Copy()
	return &cp
}

type riskRecordJSON struct {
	ID                  types.RiskID     `json:"id"`
	GroupID             *int64           `json:"group_id"`
	GroupName           *string          `json:"group_name"`
	Activity            string           `json:"activity"`
	Hazard              string           `json:"hazard"`
	Impact              int              `json:"impact"`
	ImpactDescription   string           `json:"impact_description"`
	RiskDescription     string           `json:"risk_description"`
	AspectHealth        bool             `json:"aspect_health"`
	AspectSafety        bool             `json:"aspect_safety"`
	AspectSecurity      bool             `json:"aspect_security"`
	AspectEnvironment   bool             `json:"aspect_environment"`
	AspectSocial        bool             `json:"aspect_social"`
	ExistingControl     string           `json:"existing_control"`
	Probability         int              `json:"probability"`
	Severity            int              `json:"severity"`
	InitialRiskLevel    types.RiskLevel  `json:"initial_risk_level"`
	AdditionalControl   string           `json:"additional_control"`
	ResidualProbability int              `json:"residual_probability"`
	ResidualSeverity    int              `json:"residual_severity"`
	ResidualRiskLevel   types.RiskLevel  `json:"residual_risk_level"`
	PICID               *int64           `json:"pic_id"`
	PIC                 *string          `json:"pic"`
	TargetDate          *string          `json:"target_date"`
	Status              types.RiskStatus `json:"status"`
	CurrentRiskLevel    types.RiskLevel  `json:"current_risk_level"`
	LegalStandardInfo   string           `json:"legal_standard_info"`
	IsMAH               bool             `json:"is_mah"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// MarshalJSON renders the flat register view with resolved names
func (r *RiskRecord) MarshalJSON() ([]byte, error) {
	v := riskRecordJSON{
		ID:                  r.ID,
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
		InitialRiskLevel:    r.InitialRiskLevel,
		AdditionalControl:   r.AdditionalControl,
		ResidualProbability: r.ResidualProbability,
		ResidualSeverity:    r.ResidualSeverity,
		ResidualRiskLevel:   r.ResidualRiskLevel,
		Status:              r.Status,
		CurrentRiskLevel:    r.CurrentRiskLevel,
		LegalStandardInfo:   r.LegalStandardInfo,
		IsMAH:               r.MAH,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.Group != nil {
		v.GroupID = &r.Group.ID
		v.GroupName = &r.Group.Name
	}
	if r.PIC != nil {
		v.PICID = &r.PIC.ID
		v.PIC = &r.PIC.Name
	}
	if r.TargetDate != "" {
		v.TargetDate = &r.TargetDate
	}
	return json.Marshal(v)
}

// RiskSummary counts risks by current level and by status
type RiskSummary struct {
	Total    int                      `json:"total"`
	MAH      int                      `json:"mah"`
	ByLevel  map[types.RiskLevel]int  `json:"by_level"`
	ByStatus map[types.RiskStatus]int `json:"by_status"`
}

// NewRiskSummary aggregates records. Every known level and status is present, possibly zero.
func NewRiskSummary(records []*RiskRecord) *RiskSummary {
	s := &RiskSummary{
		ByLevel:  make(map[types.RiskLevel]int),
		ByStatus: make(map[types.RiskStatus]int),
	}
	for _, l := range types.AllRiskLevels() {
		s.ByLevel[l] = 0
	}
	for _, st := range types.AllRiskStatuses() {
		s.ByStatus[st] = 0
	}

	for _, r := range records {
		s.Total++
		if r.MAH {
			s.MAH++
		}
		s.ByLevel[r.CurrentRiskLevel]++
		s.ByStatus[r.Status]++
	}
	return s
}
