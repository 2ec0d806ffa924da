package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homestockhq/homestock-backend/api/controllers"
	"github.com/homestockhq/homestock-backend/api/middleware"
	exportsvc "github.com/homestockhq/homestock-backend/internal/export"
	inventorysvc "github.com/homestockhq/homestock-backend/internal/inventory"
	itemsvc "github.com/homestockhq/homestock-backend/internal/items"
	ledgersvc "github.com/homestockhq/homestock-backend/internal/ledger"
	remindersvc "github.com/homestockhq/homestock-backend/internal/reminders"
	rulesvc "github.com/homestockhq/homestock-backend/internal/rules"
	shoppingsvc "github.com/homestockhq/homestock-backend/internal/shopping"
	wishlistsvc "github.com/homestockhq/homestock-backend/internal/wishlist"
	"github.com/homestockhq/homestock-backend/pkg/config"
	"github.com/homestockhq/homestock-backend/pkg/db"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	itemService itemsvc.Service,
	inventoryService inventorysvc.Service,
	shoppingService shoppingsvc.Service,
	wishlistService wishlistsvc.Service,
	ledgerService ledgersvc.Service,
	ruleService rulesvc.Service,
	reminderService remindersvc.Service,
	exportService exportsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(itemService, logg))
			r.Get("/", controllers.ItemList(itemService, logg))
			r.Get("/{itemId}", controllers.ItemGet(itemService, logg))
			r.Patch("/{itemId}", controllers.ItemUpdate(itemService, logg))
			r.Delete("/{itemId}", controllers.ItemRemove(itemService, logg))
			r.Get("/{itemId}/details", controllers.InventoryListByItem(inventoryService, logg))
			r.Get("/{itemId}/ledger", controllers.LedgerHistory(ledgerService, logg))
			r.Get("/{itemId}/states", controllers.LedgerActiveStates(ledgerService, logg))
		})

		r.Route("/inventory/details", func(r chi.Router) {
			r.Post("/", controllers.InventoryAddDetail(inventoryService, logg))
			r.Get("/{detailId}", controllers.InventoryGetDetail(inventoryService, logg))
			r.Patch("/{detailId}", controllers.InventoryUpdateDetail(inventoryService, logg))
			r.Post("/{detailId}/deplete", controllers.InventoryDeplete(inventoryService, logg))
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Route("/lists", func(r chi.Router) {
				r.Post("/", controllers.ShoppingCreateList(shoppingService, logg))
				r.Get("/", controllers.ShoppingListLists(shoppingService, logg))
				r.Get("/{listId}", controllers.ShoppingGetList(shoppingService, logg))
			})
			r.Route("/details", func(r chi.Router) {
				r.Post("/", controllers.ShoppingAddDetail(shoppingService, logg))
				r.Delete("/{detailId}", controllers.ShoppingRemoveDetail(shoppingService, logg))
				r.Post("/{detailId}/purchase", controllers.ShoppingPurchase(shoppingService, logg))
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/", controllers.WishlistAdd(wishlistService, logg))
			r.Get("/", controllers.WishlistList(wishlistService, logg))
			r.Get("/{itemId}", controllers.WishlistGet(wishlistService, logg))
			r.Delete("/{itemId}", controllers.WishlistRemove(wishlistService, logg))
			r.Post("/prices", controllers.WishlistObservePrice(wishlistService, logg))
			r.Get("/{itemId}/prices", controllers.WishlistPriceHistory(wishlistService, logg))
		})

		r.Route("/rules", func(r chi.Router) {
			r.Post("/", controllers.RuleCreate(ruleService, logg))
			r.Get("/", controllers.RuleList(ruleService, logg))
			r.Put("/{ruleId}", controllers.RuleUpdate(ruleService, logg))
			r.Delete("/{ruleId}", controllers.RuleDelete(ruleService, logg))
			r.Post("/evaluate", controllers.RuleEvaluate(ruleService, logg))
		})

		r.Route("/thresholds", func(r chi.Router) {
			r.Put("/", controllers.ThresholdSet(ruleService, logg))
			r.Get("/", controllers.ThresholdList(ruleService, logg))
			r.Delete("/", controllers.ThresholdDelete(ruleService, logg))
		})

		r.Route("/warranties", func(r chi.Router) {
			r.Post("/", controllers.WarrantyCreate(ruleService, logg))
			r.Get("/", controllers.WarrantyList(ruleService, logg))
			r.Delete("/{warrantyId}", controllers.WarrantyDelete(ruleService, logg))
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/settings", controllers.SettingsGet(reminderService, logg))
			r.Put("/settings", controllers.SettingsUpdate(reminderService, logg))
			r.Get("/check-state", controllers.ReminderCheckState(reminderService, logg))
			r.Post("/trigger", controllers.ReminderTrigger(reminderService, logg))
		})

		r.Get("/export", controllers.ExportSnapshot(exportService, logg))
	})

	return r
}
