package chorus_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/chorus"
)

// platform fakes the Chorus Pro token endpoint and invoice API on one server
type platform struct {
	*httptest.Server
	tokenFetches int
	lastAuth     string
	lastDeposit  map[string]any
}

func newPlatform(t *testing.T) *platform {
	t.Helper()
	p := &platform{}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "id-123", r.Form.Get("client_id"))
		assert.Equal(t, "secret-456", r.Form.Get("client_secret"))

		p.tokenFetches++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/api/deposer/flux", func(w http.ResponseWriter, r *http.Request) {
		p.lastAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p.lastDeposit))
		json.NewEncoder(w).Encode(map[string]any{
			"numeroFluxDepot": "FLUX-001",
			"statut":          "DEPOSE",
			"dateDepot":       "2026-03-15",
		})
	})
	mux.HandleFunc("/api/consulter/historique", func(w http.ResponseWriter, r *http.Request) {
		p.lastAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"identifiantFactureCPP": "CPP-42",
			"statut":                "MISE_A_DISPOSITION",
			"dateMajStatut":         "2026-03-16",
		})
	})
	mux.HandleFunc("/api/lister/recues", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"listeFactures": []map[string]any{
				{"identifiantFactureCPP": "CPP-42", "numeroFacture": "FA-2026-0042", "statut": "DEPOSE"},
				{"identifiantFactureCPP": "CPP-43", "numeroFacture": "FA-2026-0043", "statut": "REJETE"},
			},
		})
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func (p *platform) client() *chorus.Client {
	return chorus.NewClient("id-123", "secret-456",
		chorus.WithBaseURL(p.URL+"/api"),
		chorus.WithAuthURL(p.URL+"/oauth/token"),
	)
}

func TestSubmit(t *testing.T) {
	p := newPlatform(t)
	client := p.client()

	result, err := client.Submit(context.Background(), chorus.SubmissionRequest{
		XML:      "<rsm:CrossIndustryInvoice/>",
		FileName: "invoice.xml",
	})
	require.NoError(t, err)

	assert.Equal(t, "FLUX-001", result.SubmissionID)
	assert.Equal(t, "DEPOSE", result.Status)
	assert.NotEmpty(t, result.RequestID)

	assert.Equal(t, "Bearer tok-abc", p.lastAuth)
	assert.Equal(t, "invoice.xml", p.lastDeposit["fichierFactureNom"])
	assert.Equal(t, "IN_DP_E2_CII_FACTURX", p.lastDeposit["syntaxeFlux"])

	decoded, err := base64.StdEncoding.DecodeString(p.lastDeposit["fichierFactureContenu"].(string))
	require.NoError(t, err)
	assert.Equal(t, "<rsm:CrossIndustryInvoice/>", string(decoded))
}

func TestSubmit_Defaults(t *testing.T) {
	p := newPlatform(t)

	_, err := p.client().Submit(context.Background(), chorus.SubmissionRequest{XML: "<x/>"})
	require.NoError(t, err)

	assert.Equal(t, "factur-x.xml", p.lastDeposit["fichierFactureNom"])
}

func TestStatus(t *testing.T) {
	p := newPlatform(t)

	status, err := p.client().Status(context.Background(), "CPP-42")
	require.NoError(t, err)

	assert.Equal(t, "CPP-42", status.InvoiceID)
	assert.Equal(t, "MISE_A_DISPOSITION", status.Status)
}

func TestList(t *testing.T) {
	p := newPlatform(t)

	invoices, err := p.client().List(context.Background())
	require.NoError(t, err)

	require.Len(t, invoices, 2)
	assert.Equal(t, "FA-2026-0042", invoices[0].Number)
	assert.Equal(t, "REJETE", invoices[1].Status)
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	p := newPlatform(t)
	client := p.client()

	_, err := client.Status(context.Background(), "CPP-42")
	require.NoError(t, err)
	_, err = client.List(context.Background())
	require.NoError(t, err)
	_, err = client.Submit(context.Background(), chorus.SubmissionRequest{XML: "<x/>"})
	require.NoError(t, err)

	assert.Equal(t, 1, p.tokenFetches, "token must be fetched once and reused")
}

func TestSubmit_PlatformError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/api/deposer/flux", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"erreur":"SIRET inconnu"}`, http.StatusBadRequest)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := chorus.NewClient("id", "secret",
		chorus.WithBaseURL(srv.URL+"/api"),
		chorus.WithAuthURL(srv.URL+"/oauth/token"),
	)

	_, err := client.Submit(context.Background(), chorus.SubmissionRequest{XML: "<x/>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "SIRET inconnu")
}

func TestTokenEndpointFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized_client", http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := chorus.NewClient("id", "bad-secret",
		chorus.WithBaseURL(srv.URL+"/api"),
		chorus.WithAuthURL(srv.URL+"/oauth/token"),
	)

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
