package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
	"github.com/secmon-lab/riskregister/pkg/usecase"
)

const entityCategory = "Category"

func listCategoriesHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := uc.ListCategories(r.Context())
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, categories)
	}
}

func categoryStatsHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := uc.CategoryStats(r.Context())
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, stats)
	}
}

func getCategoryHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := uc.GetCategory(r.Context(), types.CategoryID(chi.URLParam(r, "id")))
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, category)
	}
}

func getCategoryHazardsHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := uc.GetCategoryWithHazards(r.Context(), types.CategoryID(chi.URLParam(r, "id")))
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, category)
	}
}

func createCategoryHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.Category
		if !decodeJSON(w, r, &req) {
			return
		}

		created, err := uc.CreateCategory(r.Context(), &req)
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusCreated, created)
	}
}

func updateCategoryHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}

		updated, err := uc.UpdateCategory(r.Context(), types.CategoryID(chi.URLParam(r, "id")), req.Name)
		if err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, updated)
	}
}

func deleteCategoryHandler(uc *usecase.CategoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteCategory(r.Context(), types.CategoryID(chi.URLParam(r, "id"))); err != nil {
			writeError(w, r, err, entityCategory)
			return
		}
		writeJSON(w, r, http.StatusOK, messageResponse{Message: "Category deleted successfully"})
	}
}
