package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

var registerColumns = []string{
	"ID", "Group", "Activity", "Hazard", "Impact", "Impact Description",
	"Risk Description", "Health", "Safety", "Security", "Environment", "Social",
	"Existing Control", "Probability", "Severity", "Initial Risk Level",
	"Additional Control", "Residual Probability", "Residual Severity",
	"Residual Risk Level", "PIC", "Target Date", "Status", "Current Risk Level",
	"Legal / Standard", "MAH",
}

func registerRow(r *model.RiskRecord) []string {
	impact := ""
	if r.Impact > 0 {
		impact = strconv.Itoa(r.Impact)
	}
	return []string{
		r.ID.String(),
		r.GroupName(),
		r.Activity,
		r.Hazard,
		impact,
		r.ImpactDescription,
		r.RiskDescription,
		strconv.FormatBool(r.Aspects.Health),
		strconv.FormatBool(r.Aspects.Safety),
		strconv.FormatBool(r.Aspects.Security),
		strconv.FormatBool(r.Aspects.Environment),
		strconv.FormatBool(r.Aspects.Social),
		r.ExistingControl,
		strconv.Itoa(r.Probability),
		strconv.Itoa(r.Severity),
		r.InitialRiskLevel.String(),
		r.AdditionalControl,
		strconv.Itoa(r.ResidualProbability),
		strconv.Itoa(r.ResidualSeverity),
		r.ResidualRiskLevel.String(),
		r.PICName(),
		r.TargetDate,
		r.Status.String(),
		r.CurrentRiskLevel.String(),
		r.LegalStandardInfo,
		strconv.FormatBool(r.MAH),
	}
}

// ExportRisks renders the whole register to w
func (uc *RiskUseCase) ExportRisks(ctx context.Context, format types.ExportFormat, w io.Writer) error {
	risks, err := uc.ListRisks(ctx)
	if err != nil {
		return err
	}

	switch format {
	case types.ExportFormatCSV:
		return writeRegisterCSV(w, risks)
	case types.ExportFormatPDF:
		return writeRegisterPDF(w, risks, uc.now().Format("2006-01-02 15:04 MST"))
	default:
		return goerr.Wrap(ErrInvalidExportFormat, "unsupported export format", goerr.V(FormatKey, format))
	}
}

func writeRegisterCSV(w io.Writer, risks []*model.RiskRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registerColumns); err != nil {
		return goerr.Wrap(err, "failed to write csv header")
	}
	for _, r := range risks {
		if err := cw.Write(registerRow(r)); err != nil {
			return goerr.Wrap(err, "failed to write csv row", goerr.V(RiskIDKey, r.ID))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush csv")
	}
	return nil
}

type pdfColumn struct {
	title string
	width float64
	value func(r *model.RiskRecord) string
}

// pdfColumns fit an A4 landscape page (277mm printable)
var pdfColumns = []pdfColumn{
	{"ID", 16, func(r *model.RiskRecord) string { return r.ID.String() }},
	{"Group", 26, func(r *model.RiskRecord) string { return r.GroupName() }},
	{"Activity", 42, func(r *model.RiskRecord) string { return r.Activity }},
	{"Hazard", 42, func(r *model.RiskRecord) string { return r.Hazard }},
	{"P x S", 14, func(r *model.RiskRecord) string { return fmt.Sprintf("%dx%d", r.Probability, r.Severity) }},
	{"Initial", 20, func(r *model.RiskRecord) string { return r.InitialRiskLevel.String() }},
	{"Res. P x S", 18, func(r *model.RiskRecord) string {
		return fmt.Sprintf("%dx%d", r.ResidualProbability, r.ResidualSeverity)
	}},
	{"Current", 20, func(r *model.RiskRecord) string { return r.CurrentRiskLevel.String() }},
	{"Status", 22, func(r *model.RiskRecord) string { return r.Status.String() }},
	{"PIC", 29, func(r *model.RiskRecord) string { return r.PICName() }},
	{"Target", 20, func(r *model.RiskRecord) string { return r.TargetDate }},
	{"MAH", 8, func(r *model.RiskRecord) string {
		if r.MAH {
			return "Y"
		}
		return ""
	}},
}

func writeRegisterPDF(w io.Writer, risks []*model.RiskRecord, generatedAt string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Risk Register", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Risk Register")
	pdf.Ln(10)

	summary := model.NewRiskSummary(risks)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d risks (%d MAH)", generatedAt, summary.Total, summary.MAH))
	pdf.Ln(6)
	for _, level := range types.AllRiskLevels() {
		pdf.Cell(45, 6, fmt.Sprintf("%s: %d", level, summary.ByLevel[level]))
	}
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	for _, r := range risks {
		if pdf.GetY() > 190 {
			pdf.AddPage()
			header()
		}
		for _, col := range pdfColumns {
			text := truncateToWidth(pdf, tr(col.value(r)), col.width-2)
			pdf.CellFormat(col.width, 6, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to render pdf")
	}
	return nil
}

// truncateToWidth cuts s to fit width. s is already single-byte encoded.
func truncateToWidth(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
