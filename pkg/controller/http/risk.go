package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/safe"
)

const entityRisk = "Risk"

func listRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := uc.ListRisks(r.Context())
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, risks)
	}
}

func getRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risk, err := uc.GetRisk(r.Context(), types.RiskID(chi.URLParam(r, "id")))
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, risk)
	}
}

// createRiskHandler decodes the body as a draft. Level fields sent by the
// client have no place in the draft and are dropped.
func createRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft model.RiskDraft
		if !decodeJSON(w, r, &draft) {
			return
		}

		created, err := uc.CreateRisk(r.Context(), &draft)
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusCreated, created)
	}
}

func updateRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft model.RiskDraft
		if !decodeJSON(w, r, &draft) {
			return
		}

		updated, err := uc.UpdateRisk(r.Context(), types.RiskID(chi.URLParam(r, "id")), &draft)
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, updated)
	}
}

func deleteRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteRisk(r.Context(), types.RiskID(chi.URLParam(r, "id"))); err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, messageResponse{Message: "Risk deleted successfully"})
	}
}

func topRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := usecase.DefaultTopRiskLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeBadRequest(w, r, "limit must be a positive integer")
				return
			}
			limit = n
		}

		risks, err := uc.TopRisks(r.Context(), limit)
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, risks)
	}
}

func riskSummaryHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := uc.Summary(r.Context())
		if err != nil {
			writeError(w, r, err, entityRisk)
			return
		}
		writeJSON(w, r, http.StatusOK, summary)
	}
}

// exportRisksHandler renders the whole register into memory first so a
// rendering failure still produces a JSON error instead of a truncated file
func exportRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := types.ParseExportFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeBadRequest(w, r, "Unsupported export format")
			return
		}

		var buf bytes.Buffer
		if err := uc.ExportRisks(r.Context(), format, &buf); err != nil {
			writeError(w, r, err, entityRisk)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="risk_register.%s"`, format))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		safe.Copy(r.Context(), w, &buf)
	}
}
