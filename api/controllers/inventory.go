package controllers

import (
	"net/http"

	"github.com/homestockhq/homestock-backend/api/responses"
	"github.com/homestockhq/homestock-backend/api/validators"
	inventorysvc "github.com/homestockhq/homestock-backend/internal/inventory"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// InventoryAddDetail records a new stock instance for an item.
func InventoryAddDetail(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventorysvc.AddDetailInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.AddDetail(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// InventoryGetDetail returns one stock instance.
func InventoryGetDetail(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// InventoryUpdateDetail applies a partial update to a stock instance.
func InventoryUpdateDetail(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload inventorysvc.UpdateDetailInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateDetail(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// InventoryListByItem lists the stock instances of one item. Pass active=true
// to hide depleted ones.
func InventoryListByItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		details, err := svc.ListByItem(r.Context(), itemID, queryBool(r, "active"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// InventoryDeplete closes a stock instance, and the item's INVENTORY state
// when it was the last one.
func InventoryDeplete(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "detailId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DepleteDetail(r.Context(), id, optionalReason(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "depleted"})
	}
}
