package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	itemsvc "github.com/homestockhq/homestock-backend/internal/items"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	pkgerrors "github.com/homestockhq/homestock-backend/pkg/errors"
	"github.com/homestockhq/homestock-backend/pkg/logger"
	"github.com/homestockhq/homestock-backend/pkg/pagination"
)

type testItemsService struct {
	createFn func(ctx context.Context, input itemsvc.CreateItemInput) (*models.Item, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*itemsvc.ItemDTO, error)
	removeFn func(ctx context.Context, id uuid.UUID, reason *string) error
	listFn   func(ctx context.Context, filter itemsvc.ListFilter, params pagination.Params) (*itemsvc.ItemsPageDTO, error)
}

func (s *testItemsService) Create(ctx context.Context, input itemsvc.CreateItemInput) (*models.Item, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.Item{}, nil
}

func (s *testItemsService) Get(ctx context.Context, id uuid.UUID) (*itemsvc.ItemDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &itemsvc.ItemDTO{}, nil
}

func (s *testItemsService) Update(ctx context.Context, id uuid.UUID, input itemsvc.UpdateItemInput) (*models.Item, error) {
	return &models.Item{}, nil
}

func (s *testItemsService) List(ctx context.Context, filter itemsvc.ListFilter, params pagination.Params) (*itemsvc.ItemsPageDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, params)
	}
	return &itemsvc.ItemsPageDTO{}, nil
}

func (s *testItemsService) Remove(ctx context.Context, id uuid.UUID, reason *string) error {
	if s.removeFn != nil {
		return s.removeFn(ctx, id, reason)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestItemCreateSuccess(t *testing.T) {
	called := false
	svc := &testItemsService{
		createFn: func(ctx context.Context, input itemsvc.CreateItemInput) (*models.Item, error) {
			called = true
			if input.Name != "Olive Oil" {
				t.Fatalf("unexpected name %q", input.Name)
			}
			return &models.Item{ID: uuid.New(), Name: input.Name, Category: input.Category}, nil
		},
	}

	body := strings.NewReader(`{"name":"Olive Oil","category":"Food"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	resp := httptest.NewRecorder()
	ItemCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestItemCreateRejectsMissingName(t *testing.T) {
	body := strings.NewReader(`{"category":"Food"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	resp := httptest.NewRecorder()
	ItemCreate(&testItemsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if envelope.Error.Details["name"] == "" {
		t.Fatal("expected a detail for the missing name")
	}
}

func TestItemCreateRejectsUnknownFields(t *testing.T) {
	body := strings.NewReader(`{"name":"Olive Oil","category":"Food","bogus":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	resp := httptest.NewRecorder()
	ItemCreate(&testItemsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestItemGetNotFound(t *testing.T) {
	svc := &testItemsService{
		getFn: func(ctx context.Context, id uuid.UUID) (*itemsvc.ItemDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/"+uuid.NewString(), nil)
	req = addRouteParam(req, "itemId", uuid.NewString())
	resp := httptest.NewRecorder()
	ItemGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestItemGetInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/invalid", nil)
	req = addRouteParam(req, "itemId", "invalid")
	resp := httptest.NewRecorder()
	ItemGet(&testItemsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestItemRemovePassesReason(t *testing.T) {
	itemID := uuid.New()
	var gotReason *string
	svc := &testItemsService{
		removeFn: func(ctx context.Context, id uuid.UUID, reason *string) error {
			if id != itemID {
				t.Fatalf("unexpected item %s", id)
			}
			gotReason = reason
			return nil
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+itemID.String()+"?reason=broken", nil)
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	ItemRemove(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotReason == nil || *gotReason != "broken" {
		t.Fatalf("reason not forwarded, got %v", gotReason)
	}
}

func TestItemRemoveStateConflict(t *testing.T) {
	svc := &testItemsService{
		removeFn: func(ctx context.Context, id uuid.UUID, reason *string) error {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item is already removed")
		},
	}
	itemID := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+itemID, nil)
	req = addRouteParam(req, "itemId", itemID)
	resp := httptest.NewRecorder()
	ItemRemove(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Message != "item is already removed" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestItemListForwardsFilters(t *testing.T) {
	svc := &testItemsService{
		listFn: func(ctx context.Context, filter itemsvc.ListFilter, params pagination.Params) (*itemsvc.ItemsPageDTO, error) {
			if filter.Category != "Food" || filter.Search != "oil" {
				t.Fatalf("filters not forwarded: %+v", filter)
			}
			if params.Limit != 10 || params.Cursor != "abc" {
				t.Fatalf("pagination not forwarded: %+v", params)
			}
			return &itemsvc.ItemsPageDTO{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?category=Food&search=oil&limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()
	ItemList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
