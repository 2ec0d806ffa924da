package controllers

import (
	"net/http"

	"github.com/homestockhq/homestock-backend/api/responses"
	exportsvc "github.com/homestockhq/homestock-backend/internal/export"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// ExportSnapshot returns a consistent machine-readable dump of the store.
func ExportSnapshot(svc exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
