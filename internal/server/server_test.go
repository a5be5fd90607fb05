package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/quota"
	"github.com/rezonia/facturx/internal/server"
)

func newTestServer(t *testing.T, config *server.Config) http.Handler {
	t.Helper()
	if config == nil {
		config = &server.Config{}
	}
	return server.NewServer(config).Handler()
}

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		Number:    "FA-2026-0042",
		IssueDate: "2026-03-15",
		Currency:  "EUR",
		Seller: model.TradeParty{
			Name:      "ACME SAS",
			VATNumber: "FR32123456789",
			Address:   model.PostalAddress{Street: "1 rue de la Paix", City: "Paris", PostalCode: "75002", Country: "FR"},
		},
		Buyer: model.TradeParty{
			Name:    "CLIENT SA",
			Address: model.PostalAddress{Street: "3 avenue des Champs", City: "Lyon", PostalCode: "69001", Country: "FR"},
		},
		Lines: []model.InvoiceLine{
			{
				ID:          "1",
				Description: "Consulting services",
				Quantity:    decimal.NewFromInt(10),
				Unit:        "DAY",
				UnitPrice:   decimal.NewFromInt(150),
				Total:       decimal.NewFromInt(1500),
				TaxRate:     decimal.NewFromInt(20),
				TaxCategory: model.TaxCategoryStandard,
			},
		},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGenerateEndpoint(t *testing.T) {
	handler := newTestServer(t, nil)

	w := postJSON(t, handler, "/api/v1/generate", sampleInvoice())

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		XML     string `json:"xml"`
		Profile string `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.XML, "<rsm:CrossIndustryInvoice")
	assert.Contains(t, resp.XML, "FA-2026-0042")
	assert.Equal(t, "EN16931", resp.Profile)
}

func TestGenerateEndpoint_InvalidInvoice(t *testing.T) {
	handler := newTestServer(t, nil)

	inv := sampleInvoice()
	inv.Number = ""

	w := postJSON(t, handler, "/api/v1/generate", inv)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "BT-1")
}

func TestGenerateEndpoint_BadPayload(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_QuotaExhausted(t *testing.T) {
	tracker := quota.NewTracker(filepath.Join(t.TempDir(), "quota.json"), 1)
	handler := newTestServer(t, &server.Config{Quota: tracker})

	first := postJSON(t, handler, "/api/v1/generate", sampleInvoice())
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, handler, "/api/v1/generate", sampleInvoice())
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "quota exhausted")
}

func TestGenerateEndpoint_QuotaNotConsumedOnValidationFailure(t *testing.T) {
	tracker := quota.NewTracker(filepath.Join(t.TempDir(), "quota.json"), 1)
	handler := newTestServer(t, &server.Config{Quota: tracker})

	bad := sampleInvoice()
	bad.Number = ""
	w := postJSON(t, handler, "/api/v1/generate", bad)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	remaining, err := tracker.Remaining()
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestParseEndpoint(t *testing.T) {
	handler := newTestServer(t, nil)

	gen := postJSON(t, handler, "/api/v1/generate", sampleInvoice())
	require.Equal(t, http.StatusOK, gen.Code)
	var genResp struct {
		XML string `json:"xml"`
	}
	require.NoError(t, json.Unmarshal(gen.Body.Bytes(), &genResp))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(genResp.XML))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FA-2026-0042")
	assert.Contains(t, w.Body.String(), "ACME SAS")
}

func TestParseEndpoint_BadDocument(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("<unrelated/>"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseEndpoint_EmptyBody(t *testing.T) {
	handler := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	handler := newTestServer(t, nil)

	w := postJSON(t, handler, "/api/v1/validate", sampleInvoice())

	require.Equal(t, http.StatusOK, w.Code)
	var result model.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Valid)

	inv := sampleInvoice()
	inv.Currency = "euros"
	w = postJSON(t, handler, "/api/v1/validate", inv)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Valid)
}

func TestTotalsEndpoint(t *testing.T) {
	handler := newTestServer(t, nil)

	w := postJSON(t, handler, "/api/v1/totals", map[string]any{
		"lines": sampleInvoice().Lines,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var totals model.InvoiceTotals
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, "1500", totals.LineTotal.String())
	assert.Equal(t, "300", totals.TaxTotal.String())
	assert.Equal(t, "1800", totals.GrandTotal.String())
}
