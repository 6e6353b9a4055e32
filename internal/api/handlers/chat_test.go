package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository"
	"github.com/Strizzyy/care-engine/internal/service"
	"github.com/Strizzyy/care-engine/pkg/errors"
)

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (s *stubCustomerRepo) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: customerID}
	}
	return customer, nil
}

func (s *stubCustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) { return nil, nil }

func (s *stubCustomerRepo) UpdateWalletBalance(ctx context.Context, customerID string, newBalance float64) (bool, error) {
	return false, nil
}

type stubOrderRepo struct {
	orders map[string]*domain.Order
}

func (s *stubOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return order, nil
}

func (s *stubOrderRepo) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return nil, nil
}

type stubEscalationRepo struct {
	added []string
}

func (s *stubEscalationRepo) Add(ctx context.Context, caseID, customerID, issueDetails string) error {
	s.added = append(s.added, issueDetails)
	return nil
}

func (s *stubEscalationRepo) GetByCaseID(ctx context.Context, caseID string) (*domain.EscalationCase, error) {
	return nil, &errors.ErrNotFound{Resource: "escalation", ID: caseID}
}

func (s *stubEscalationRepo) GetByCustomer(ctx context.Context, customerID string) ([]*domain.EscalationCase, error) {
	return nil, nil
}

func (s *stubEscalationRepo) List(ctx context.Context) ([]*domain.EscalationCase, error) {
	return nil, nil
}

func (s *stubEscalationRepo) Resolve(ctx context.Context, caseID string, resolution string) (bool, error) {
	return false, nil
}

type stubClassifier struct {
	intent domain.Intent
	err    error
}

func (s *stubClassifier) ClassifyIntent(ctx context.Context, message string) (domain.Intent, error) {
	return s.intent, s.err
}

type stubResolver struct {
	result *service.ResolveResult
	last   *service.ResolveRequest
}

func (s *stubResolver) Resolve(ctx context.Context, req service.ResolveRequest) *service.ResolveResult {
	s.last = &req
	result := *s.result
	result.CaseID = req.CaseID
	return &result
}

func chatFixture() (*repository.Repositories, *stubEscalationRepo) {
	escalations := &stubEscalationRepo{}
	repos := &repository.Repositories{
		Customers: &stubCustomerRepo{customers: map[string]*domain.Customer{
			"WM001": {CustomerID: "WM001", Name: "Priya Sharma", WalletBalance: 500},
		}},
		Orders: &stubOrderRepo{orders: map[string]*domain.Order{
			"ORD007": {OrderID: "ORD007", TotalAmount: 250},
		}},
		Escalations: escalations,
	}
	return repos, escalations
}

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, _ := chatFixture()
	classifier := &stubClassifier{intent: domain.IntentOrderStatus}
	resolver := &stubResolver{result: &service.ResolveResult{
		Status:  domain.StatusResolved,
		Message: "Order ORD007 status: delivered.",
	}}
	router := gin.New()
	router.POST("/chat", HandleChat(repos, classifier, resolver, zap.NewNop()))

	w := postChat(router, `{"message": "where is ORD007", "customer_id": "WM001"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Intent != "ORDER_STATUS" || resp.Status != domain.StatusResolved {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.CaseID == "" {
		t.Error("expected a generated case id")
	}
	if resolver.last == nil || resolver.last.CustomerID != "WM001" {
		t.Errorf("resolver called with %+v", resolver.last)
	}
}

func TestHandleChat_UnknownCustomer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, escalations := chatFixture()
	resolver := &stubResolver{result: &service.ResolveResult{}}
	router := gin.New()
	router.POST("/chat", HandleChat(repos, &stubClassifier{}, resolver, zap.NewNop()))

	w := postChat(router, `{"message": "hello", "customer_id": "ghost"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Intent != "ERROR" || resp.Status != domain.StatusEscalated {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.Contains(resp.Response, "ghost not found") {
		t.Errorf("unexpected message %q", resp.Response)
	}
	if len(escalations.added) != 1 {
		t.Errorf("expected one escalation, got %d", len(escalations.added))
	}
	if resolver.last != nil {
		t.Error("resolver must not run for unknown customers")
	}
}

func TestHandleChat_ClassifierFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, escalations := chatFixture()
	classifier := &stubClassifier{err: fmt.Errorf("model unavailable")}
	router := gin.New()
	router.POST("/chat", HandleChat(repos, classifier, &stubResolver{result: &service.ResolveResult{}}, zap.NewNop()))

	w := postChat(router, `{"message": "hello", "customer_id": "WM001"}`)

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != domain.StatusEscalated || resp.Intent != "ERROR" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(escalations.added) != 1 {
		t.Errorf("expected one escalation, got %d", len(escalations.added))
	}
}

func TestHandleChat_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, _ := chatFixture()
	router := gin.New()
	router.POST("/chat", HandleChat(repos, &stubClassifier{}, &stubResolver{result: &service.ResolveResult{}}, zap.NewNop()))

	w := postChat(router, `{"message": "hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileContents []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	part, err := writer.CreateFormFile("file", "damage.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write(fileContents)
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandleValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, _ := chatFixture()
	resolver := &stubResolver{result: &service.ResolveResult{
		Status:  domain.StatusResolved,
		Message: "Refund of ₹250.00 processed successfully.",
		OrderID: "ORD007",
	}}
	router := gin.New()
	router.POST("/validate", HandleValidate(repos, resolver, zap.NewNop()))

	body, contentType := multipartBody(t, map[string]string{
		"message":     "refund for ORD007",
		"customer_id": "WM001",
	}, []byte("image-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp ValidateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Priority != "Standard" {
		t.Errorf("expected Standard priority for resolved, got %q", resp.Priority)
	}
	if !strings.HasPrefix(resp.ReferenceID, "REF-") {
		t.Errorf("unexpected reference id %q", resp.ReferenceID)
	}
	if resolver.last == nil {
		t.Fatal("resolver not called")
	}
	if resolver.last.Intent != domain.IntentRefundRequest {
		t.Errorf("intent = %s, want REFUND_REQUEST", resolver.last.Intent)
	}
	if string(resolver.last.Image) != "image-bytes" {
		t.Errorf("unexpected image payload %q", resolver.last.Image)
	}
	if resolver.last.RefundAmount == nil || *resolver.last.RefundAmount != 250 {
		t.Errorf("expected order total as refund amount, got %v", resolver.last.RefundAmount)
	}
}

func TestHandleValidate_EmptyFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos, _ := chatFixture()
	resolver := &stubResolver{result: &service.ResolveResult{}}
	router := gin.New()
	router.POST("/validate", HandleValidate(repos, resolver, zap.NewNop()))

	body, contentType := multipartBody(t, map[string]string{"customer_id": "WM001"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp ValidateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != domain.StatusEscalated {
		t.Errorf("expected escalated for empty upload, got %s", resp.Status)
	}
	if !strings.HasPrefix(resp.ReferenceID, "REF-ERR-") {
		t.Errorf("unexpected reference id %q", resp.ReferenceID)
	}
	if resolver.last != nil {
		t.Error("resolver must not run for an empty upload")
	}
}
