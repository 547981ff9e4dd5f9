package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

func TestRiskUseCase_ExportRisks(t *testing.T) {
	uc, _ := setupRiskUseCase(t)
	ctx := context.Background()

	_, err := uc.Risk.CreateRisk(ctx, newDraft())
	gt.NoError(t, err).Required()
	noGroup := newDraft()
	noGroup.Group = ""
	noGroup.Impact = 0
	_, err = uc.Risk.CreateRisk(ctx, noGroup)
	gt.NoError(t, err).Required()

	t.Run("csv has a header and one row per risk", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, uc.Risk.ExportRisks(ctx, types.ExportFormatCSV, &buf)).Required()

		records, err := csv.NewReader(&buf).ReadAll()
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3).Required()

		header := records[0]
		gt.Array(t, header).Length(26).Required()
		gt.Value(t, header[0]).Equal("ID")
		gt.Value(t, header[15]).Equal("Initial Risk Level")

		first := records[1]
		gt.Value(t, first[0]).Equal("R-001")
		gt.Value(t, first[1]).Equal("Operations")
		gt.Value(t, first[4]).Equal("3")
		gt.Value(t, first[15]).Equal("Very High")
		gt.Value(t, first[20]).Equal("Warehouse")
		gt.Value(t, first[22]).Equal("Open")

		second := records[2]
		gt.Value(t, second[0]).Equal("R-002")
		gt.Value(t, second[1]).Equal("")
		gt.Value(t, second[4]).Equal("")
	})

	t.Run("pdf", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, uc.Risk.ExportRisks(ctx, types.ExportFormatPDF, &buf)).Required()
		gt.Bool(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		err := uc.Risk.ExportRisks(ctx, types.ExportFormat("xlsx"), &buf)
		gt.Error(t, err).Is(usecase.ErrInvalidExportFormat)
		gt.Number(t, buf.Len()).Equal(0)
	})
}
