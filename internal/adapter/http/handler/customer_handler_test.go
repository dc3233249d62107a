package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/dto"
	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

type customerServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	getFn    func(ctx context.Context, id string) (*domain.Customer, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (bool, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return s.createFn(ctx, input)
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *customerServiceStub) UpdateCustomer(ctx context.Context, id string, input usecase.UpdateCustomerInput) (bool, error) {
	return s.updateFn(ctx, id, input)
}

func (s *customerServiceStub) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	return s.listFn(ctx, limit, offset)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCustomerHandler_Create_Success(t *testing.T) {
	customer := &domain.Customer{ID: "cust-1", Name: "City Clinic"}

	var captured usecase.CreateCustomerInput
	h := NewCustomerHandler(&customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			captured = input
			return customer, nil
		},
	})

	body, _ := json.Marshal(dto.CreateCustomerRequest{Name: "City Clinic", Contact: "555-0100"})
	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Name != "City Clinic" || captured.Contact != "555-0100" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.CustomerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "cust-1" {
		t.Fatalf("expected customer ID cust-1, got %s", resp.ID)
	}
}

func TestCustomerHandler_Create_InvalidJSON(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			t.Fatal("CreateCustomer should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCustomerHandler_Create_ValidationError(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
			return nil, domain.ErrValidation
		},
	})

	body, _ := json.Marshal(dto.CreateCustomerRequest{})
	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/customers/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCustomerHandler_Delete_Referenced(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrReferentialIntegrity
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customers/cust-1", nil), "id", "cust-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCustomerHandler_Delete_Success(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		deleteFn: func(ctx context.Context, id string) error { return nil },
	})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/customers/cust-1", nil), "id", "cust-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
