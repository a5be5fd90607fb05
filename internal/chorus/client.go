// Package chorus submits Factur-X documents to the Chorus Pro platform.
//
// Every exchange is a single scoped request with one timeout and no retry;
// callers decide whether to try again. OAuth tokens are cached in memory
// and refreshed shortly before expiry.
package chorus

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.piste.gouv.fr/cpro/factures"
	DefaultAuthURL = "https://oauth.piste.gouv.fr/api/oauth/token"
	DefaultTimeout = 30 * time.Second

	// refresh tokens a minute before they actually expire
	tokenExpiryMargin = time.Minute
)

// Client talks to the Chorus Pro invoice API
type Client struct {
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option configures the client
type Option func(*Client)

// WithBaseURL sets a custom API base URL
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithAuthURL sets a custom OAuth token URL
func WithAuthURL(u string) Option {
	return func(c *Client) {
		c.authURL = u
	}
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Chorus Pro client with the given OAuth credentials
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		authURL:      DefaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmissionRequest carries a finished XML document plus routing metadata
type SubmissionRequest struct {
	XML           string `json:"-"`
	FileName      string `json:"fichierFactureNom"`
	SyntaxFlow    string `json:"syntaxeFlux"`
	RecipientSiret string `json:"destinataireSiret,omitempty"`
}

// SubmissionResult is the platform's acknowledgement of a deposit
type SubmissionResult struct {
	SubmissionID string `json:"numeroFluxDepot"`
	RequestID    string `json:"request_id"`
	Status       string `json:"statut"`
	Timestamp    string `json:"dateDepot"`
}

// InvoiceStatus describes the lifecycle state of a submitted invoice
type InvoiceStatus struct {
	InvoiceID string `json:"identifiantFactureCPP"`
	Status    string `json:"statut"`
	UpdatedAt string `json:"dateMajStatut"`
	Comment   string `json:"commentaire,omitempty"`
}

// InvoiceSummary is one entry of the submitted-invoice listing
type InvoiceSummary struct {
	InvoiceID string `json:"identifiantFactureCPP"`
	Number    string `json:"numeroFacture"`
	Status    string `json:"statut"`
	Amount    string `json:"montantTTC"`
	Deposited string `json:"dateDepot"`
}

// Submit deposits a Factur-X document on the platform
func (c *Client) Submit(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error) {
	if req.SyntaxFlow == "" {
		req.SyntaxFlow = "IN_DP_E2_CII_FACTURX"
	}
	if req.FileName == "" {
		req.FileName = "factur-x.xml"
	}

	requestID := uuid.NewString()
	payload := map[string]interface{}{
		"fichierFactureNom":     req.FileName,
		"fichierFactureContenu": base64.StdEncoding.EncodeToString([]byte(req.XML)),
		"syntaxeFlux":           req.SyntaxFlow,
		"idUtilisateurCourant":  0,
	}
	if req.RecipientSiret != "" {
		payload["destinataireSiret"] = req.RecipientSiret
	}

	c.log.Debug().Str("request_id", requestID).Str("file", req.FileName).Msg("submitting invoice")

	var result SubmissionResult
	if err := c.post(ctx, "/deposer/flux", payload, &result); err != nil {
		return nil, fmt.Errorf("chorus submit: %w", err)
	}
	result.RequestID = requestID
	return &result, nil
}

// Status fetches the current lifecycle status of a submitted invoice
func (c *Client) Status(ctx context.Context, invoiceID string) (*InvoiceStatus, error) {
	payload := map[string]interface{}{"identifiantFactureCPP": invoiceID}

	var status InvoiceStatus
	if err := c.post(ctx, "/consulter/historique", payload, &status); err != nil {
		return nil, fmt.Errorf("chorus status: %w", err)
	}
	return &status, nil
}

// List returns the supplier's submitted invoices
func (c *Client) List(ctx context.Context) ([]InvoiceSummary, error) {
	var response struct {
		Invoices []InvoiceSummary `json:"listeFactures"`
	}
	if err := c.post(ctx, "/lister/recues", map[string]interface{}{}, &response); err != nil {
		return nil, fmt.Errorf("chorus list: %w", err)
	}
	return response.Invoices, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("platform returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// token returns a cached OAuth token, fetching a fresh one when needed
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryMargin)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {"openid"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	c.log.Debug().Time("expiry", c.tokenExpiry).Msg("refreshed access token")

	return c.accessToken, nil
}
