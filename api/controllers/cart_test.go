package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lmartinelli/tienda-backend/api/middleware"
	cartsvc "github.com/lmartinelli/tienda-backend/internal/cart"
	pkgerrors "github.com/lmartinelli/tienda-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error
}

func (s stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, req cartsvc.AddItemRequest) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func TestGetCartSuccess(t *testing.T) {
	userID := uuid.New()
	router := chi.NewRouter()
	router.Get("/api/v1/cart/{userId}", GetCart(stubCartService{cart: &cartsvc.CartDTO{UserID: userID}}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/"+userID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Success bool             `json:"success"`
		Data    cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.UserID != userID {
		t.Fatalf("unexpected cart owner: %s", envelope.Data.UserID)
	}
}

func TestGetCartRejectsMalformedUserID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/cart/{userId}", GetCart(stubCartService{}, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart/not-a-uuid", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddCartItemMissingUserContext(t *testing.T) {
	handler := AddCartItem(stubCartService{}, nil)

	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `","quantity":1}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddCartItemRejectsUnknownFields(t *testing.T) {
	userID := uuid.New()
	handler := AddCartItem(stubCartService{cart: &cartsvc.CartDTO{UserID: userID}}, nil)

	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `","quantity":1,"color":"red"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddCartItemBusinessRuleSurfacesAs400(t *testing.T) {
	userID := uuid.New()
	handler := AddCartItem(stubCartService{
		err: pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock"),
	}, nil)

	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `","quantity":3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected error envelope")
	}
	if envelope.Error.Code != string(pkgerrors.CodeBusinessRule) {
		t.Fatalf("unexpected error code: %s", envelope.Error.Code)
	}
}
