package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// riskDocument stores group and PIC by ID only. Names are resolved on read.
type riskDocument struct {
	ID                  string    `firestore:"id"`
	GroupID             *int64    `firestore:"group_id"`
	Activity            string    `firestore:"activity"`
	Hazard              string    `firestore:"hazard"`
	Impact              int       `firestore:"impact"`
	ImpactDescription   string    `firestore:"impact_description"`
	RiskDescription     string    `firestore:"risk_description"`
	AspectHealth        bool      `firestore:"aspect_health"`
	AspectSafety        bool      `firestore:"aspect_safety"`
	AspectSecurity      bool      `firestore:"aspect_security"`
	AspectEnvironment   bool      `firestore:"aspect_environment"`
	AspectSocial        bool      `firestore:"aspect_social"`
	ExistingControl     string    `firestore:"existing_control"`
	Probability         int       `firestore:"probability"`
	Severity            int       `firestore:"severity"`
	InitialRiskLevel    string    `firestore:"initial_risk_level"`
	AdditionalControl   string    `firestore:"additional_control"`
	ResidualProbability int       `firestore:"residual_probability"`
	ResidualSeverity    int       `firestore:"residual_severity"`
	ResidualRiskLevel   string    `firestore:"residual_risk_level"`
	PICID               *int64    `firestore:"pic_id"`
	TargetDate          string    `firestore:"target_date"`
	Status              string    `firestore:"status"`
	CurrentRiskLevel    string    `firestore:"current_risk_level"`
	LegalStandardInfo   string    `firestore:"legal_standard_info"`
	IsMAH               bool      `firestore:"is_mah"`
	CreatedAt           time.Time `firestore:"created_at"`
	UpdatedAt           time.Time `firestore:"updated_at"`
}

func referenceID(ref *model.Reference) *int64 {
	if ref == nil {
		return nil
	}
	id := ref.ID
	return &id
}

func toRiskDocument(r *model.RiskRecord) *riskDocument {
	return &riskDocument{
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

// toModel resolves group and PIC from the given lookup tables. A dangling ID reads as null.
func (d *riskDocument) toModel(groups, departments map[int64]*model.Reference) *model.RiskRecord {
	record := &model.RiskRecord{
		ID:                types.RiskID(d.ID),
		Activity:          d.Activity,
		Hazard:            d.Hazard,
		Impact:            d.Impact,
		ImpactDescription: d.ImpactDescription,
		RiskDescription:   d.RiskDescription,
		Aspects: model.RiskAspects{
			Health:      d.AspectHealth,
			Safety:      d.AspectSafety,
			Security:    d.AspectSecurity,
			Environment: d.AspectEnvironment,
			Social:      d.AspectSocial,
		},
		ExistingControl:     d.ExistingControl,
		Probability:         d.Probability,
		Severity:            d.Severity,
		InitialRiskLevel:    types.RiskLevel(d.InitialRiskLevel),
		AdditionalControl:   d.AdditionalControl,
		ResidualProbability: d.ResidualProbability,
		ResidualSeverity:    d.ResidualSeverity,
		ResidualRiskLevel:   types.RiskLevel(d.ResidualRiskLevel),
		TargetDate:          d.TargetDate,
		Status:              types.RiskStatus(d.Status),
		CurrentRiskLevel:    types.RiskLevel(d.CurrentRiskLevel),
		LegalStandardInfo:   d.LegalStandardInfo,
		MAH:                 d.IsMAH,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
	if d.GroupID != nil {
		if ref, ok := groups[*d.GroupID]; ok {
			record.Group = ref.Copy()
		}
	}
	if d.PICID != nil {
		if ref, ok := departments[*d.PICID]; ok {
			record.PIC = ref.Copy()
		}
	}
	return record
}

type riskRepository struct {
	f *Firestore
}

func (r *riskRepository) risks() *firestore.CollectionRef {
	return r.f.collection("risks")
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	groups, err := lookupReferences(ctx, r.f, "groups")
	if err != nil {
		return nil, err
	}
	departments, err := lookupReferences(ctx, r.f, "departments")
	if err != nil {
		return nil, err
	}

	docs, err := r.f.query(ctx, r.risks().OrderBy("id", firestore.Asc))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	risks := make([]*model.RiskRecord, 0, len(docs))
	for _, doc := range docs {
		var d riskDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V(interfaces.IDKey, doc.Ref.ID))
		}
		risks = append(risks, d.toModel(groups, departments))
	}
	return risks, nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskRecord, error) {
	doc, err := r.f.get(ctx, r.risks().Doc(id.String()))
	if err != nil {
		return nil, translateError(err, "failed to get risk", goerr.V(interfaces.IDKey, id))
	}

	var d riskDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V(interfaces.IDKey, id))
	}

	groups := map[int64]*model.Reference{}
	departments := map[int64]*model.Reference{}
	if d.GroupID != nil {
		if ref, err := getReference(ctx, r.f, "groups", *d.GroupID); err == nil {
			groups[ref.ID] = ref
		} else if status.Code(err) != codes.NotFound {
			return nil, goerr.Wrap(err, "failed to get group of risk", goerr.V(interfaces.IDKey, id))
		}
	}
	if d.PICID != nil {
		if ref, err := getReference(ctx, r.f, "departments", *d.PICID); err == nil {
			departments[ref.ID] = ref
		} else if status.Code(err) != codes.NotFound {
			return nil, goerr.Wrap(err, "failed to get PIC of risk", goerr.V(interfaces.IDKey, id))
		}
	}

	return d.toModel(groups, departments), nil
}

func (r *riskRepository) Count(ctx context.Context) (int, error) {
	if r.f.tx != nil {
		docs, err := r.f.query(ctx, r.risks().Select())
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count risks")
		}
		return len(docs), nil
	}

	result, err := r.risks().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count risks")
	}
	count, ok := result["all"]
	if !ok {
		return 0, goerr.New("count result is missing")
	}
	switch v := count.(type) {
	case int64:
		return int(v), nil
	case interface{ GetIntegerValue() int64 }:
		return int(v.GetIntegerValue()), nil
	default:
		return 0, goerr.New("unexpected count result type", goerr.V("type", v))
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.RiskRecord) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		if err := checkRiskReferences(ctx, f, risk); err != nil {
			return err
		}

		doc := toRiskDocument(risk)
		if err := f.create(ctx, f.collection("risks").Doc(doc.ID), doc); err != nil {
			return translateError(err, "failed to create risk", goerr.V(interfaces.IDKey, risk.ID))
		}
		return nil
	})
}

func (r *riskRepository) Update(ctx context.Context, risk *model.RiskRecord) error {
	return r.f.RunInTx(ctx, func(ctx context.Context, tx interfaces.Repository) error {
		f := tx.(*Firestore)
		ref := f.collection("risks").Doc(risk.ID.String())
		if _, err := f.get(ctx, ref); err != nil {
			return translateError(err, "failed to get risk", goerr.V(interfaces.IDKey, risk.ID))
		}
		if err := checkRiskReferences(ctx, f, risk); err != nil {
			return err
		}

		if err := f.set(ctx, ref, toRiskDocument(risk)); err != nil {
			return goerr.Wrap(err, "failed to update risk", goerr.V(interfaces.IDKey, risk.ID))
		}
		return nil
	})
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	if err := r.f.remove(ctx, r.risks().Doc(id.String())); err != nil {
		return translateError(err, "failed to delete risk", goerr.V(interfaces.IDKey, id))
	}
	return nil
}

func checkRiskReferences(ctx context.Context, f *Firestore, risk *model.RiskRecord) error {
	if risk.Group != nil {
		if _, err := getReference(ctx, f, "groups", risk.Group.ID); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrForeignKey, "group does not exist", goerr.V(interfaces.IDKey, risk.Group.ID))
			}
			return goerr.Wrap(err, "failed to get group", goerr.V(interfaces.IDKey, risk.Group.ID))
		}
	}
	if risk.PIC != nil {
		if _, err := getReference(ctx, f, "departments", risk.PIC.ID); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrForeignKey, "department does not exist", goerr.V(interfaces.IDKey, risk.PIC.ID))
			}
			return goerr.Wrap(err, "failed to get department", goerr.V(interfaces.IDKey, risk.PIC.ID))
		}
	}
	return nil
}
