package http

import (
	"net/http"

	"github.com/secmon-lab/riskregister/pkg/usecase"
)

func listDepartmentsHandler(uc *usecase.ReferenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := uc.ListDepartments(r.Context())
		if err != nil {
			writeError(w, r, err, "Department")
			return
		}
		writeJSON(w, r, http.StatusOK, departments)
	}
}

func listGroupsHandler(uc *usecase.ReferenceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := uc.ListGroups(r.Context())
		if err != nil {
			writeError(w, r, err, "Group")
			return
		}
		writeJSON(w, r, http.StatusOK, groups)
	}
}
