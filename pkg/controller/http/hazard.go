package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

const entityHazard = "Hazard"

func listHazardsHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hazards, err := uc.ListHazards(r.Context())
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, hazards)
	}
}

func getHazardHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hazard, err := uc.GetHazard(r.Context(), types.HazardID(chi.URLParam(r, "id")))
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, hazard)
	}
}

func listCategoryHazardsHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hazards, err := uc.ListHazardsByCategory(r.Context(), types.CategoryID(chi.URLParam(r, "categoryId")))
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, hazards)
	}
}

func searchHazardsHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hazards, err := uc.SearchHazards(r.Context(), r.URL.Query().Get("term"))
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, hazards)
	}
}

// filterHazardsHandler selects an aspect only when its query value is the
// literal "true"
func filterHazardsHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var selected []types.ImpactAspect
		for _, a := range types.AllImpactAspects() {
			if query.Get(a.String()) == "true" {
				selected = append(selected, a)
			}
		}

		hazards, err := uc.FilterHazards(r.Context(), model.NewImpactFilter(selected...))
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, hazards)
	}
}

func createHazardHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.Hazard
		if !decodeJSON(w, r, &req) {
			return
		}

		created, err := uc.CreateHazard(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusCreated, created)
	}
}

func updateHazardHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.Hazard
		if !decodeJSON(w, r, &req) {
			return
		}

		updated, err := uc.UpdateHazard(r.Context(), types.HazardID(chi.URLParam(r, "id")), &req)
		if err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, updated)
	}
}

func deleteHazardHandler(uc *usecase.HazardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteHazard(r.Context(), types.HazardID(chi.URLParam(r, "id"))); err != nil {
			writeError(w, r, err, entityHazard)
			return
		}
		writeJSON(w, r, http.StatusOK, messageResponse{Message: "Hazard deleted successfully"})
	}
}
