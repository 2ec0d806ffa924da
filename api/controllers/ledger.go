package controllers

import (
	"net/http"

	"github.com/homestockhq/homestock-backend/api/responses"
	ledgersvc "github.com/homestockhq/homestock-backend/internal/ledger"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// LedgerHistory pages the full state history for one item, newest first.
func LedgerHistory(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.HistoryFor(r.Context(), itemID, queryPagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LedgerActiveStates returns the distinct states an item currently holds.
func LedgerActiveStates(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		states, err := svc.ActiveStates(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, states)
	}
}
