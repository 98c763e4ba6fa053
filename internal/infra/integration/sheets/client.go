package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/lead-funnel/internal/entity"
)

const (
	DefaultBaseURL     = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultSheetName   = "Sheet1"
	DefaultTimezone    = "America/New_York"
	DefaultMaxAttempts = 3
	DefaultBackoff     = time.Second

	// en-US com 2 dígitos em tudo: 03/14/2026, 09:05:00 AM
	RowTimestampLayout = "01/02/2006, 03:04:05 PM"

	headerRange = "A1:F1"
)

var HeaderRow = []string{"Timestamp", "Name", "Email", "Phone", "Company/Brokerage", "Status"}

type Config struct {
	SpreadsheetID string
	SheetName     string
	BaseURL       string
	Timezone      string
	MaxAttempts   int
	Backoff       time.Duration
	HTTPClient    *http.Client
}

type Client struct {
	spreadsheetID string
	sheetName     string
	baseURL       string
	location      *time.Location
	maxAttempts   int
	backoff       time.Duration

	creds Credentials
	http  *http.Client
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewClient(cfg Config, creds Credentials, log logrus.FieldLogger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if creds == nil {
		return nil, errors.New("credentials are required")
	}

	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sheets timezone %q: %w", cfg.Timezone, err)
	}

	return &Client{
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		location:      loc,
		maxAttempts:   cfg.MaxAttempts,
		backoff:       cfg.Backoff,
		creds:         creds,
		http:          cfg.HTTPClient,
		log:           log.WithField("service", "google_sheets"),
		now:           time.Now,
	}, nil
}

func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// LeadRow monta a linha na ordem das colunas do cabeçalho.
func (c *Client) LeadRow(lead *entity.Lead) []string {
	company := lead.Company
	if company == "" {
		company = "Not specified"
	}
	return []string{
		lead.SubmittedAt.In(c.location).Format(RowTimestampLayout),
		lead.Name,
		lead.Email,
		lead.Phone,
		company,
		"New",
	}
}

func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if !c.creds.IsStale(c.now()) {
		return nil
	}
	if err := c.creds.Authenticate(ctx); err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			err = &AuthError{Err: err}
		}
		return err
	}
	c.log.Info("🔑 Autenticação Google Sheets renovada")
	return nil
}

// AddLeadToSheet anexa uma linha. 401 na primeira tentativa força nova autenticação
// sem espera; demais falhas esperam o backoff até esgotar as tentativas.
func (c *Client) AddLeadToSheet(ctx context.Context, lead *entity.Lead) error {
	log := c.log.WithFields(logrus.Fields{"lead_id": lead.ID, "email": lead.Email})

	if err := c.ensureAuthenticated(ctx); err != nil {
		log.WithError(err).Error("❌ Falha na autenticação do Google Sheets")
		return &RelayError{Err: err}
	}

	body, err := json.Marshal(valueRange{Values: [][]string{c.LeadRow(lead)}})
	if err != nil {
		return &RelayError{Err: err}
	}
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.sheetName))

	var last *RelayError
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.ensureAuthenticated(ctx); err != nil {
				last = &RelayError{Err: err}
				if !c.wait(ctx, attempt) {
					return last
				}
				continue
			}
		}

		status, respBody, err := c.do(ctx, http.MethodPost, endpoint, body)
		if err == nil && isSuccess(status) {
			var out appendResponse
			_ = json.Unmarshal(respBody, &out)
			log.WithField("updated_rows", out.Updates.UpdatedRows).Info("✅ Lead adicionado ao Google Sheets")
			return nil
		}

		last = &RelayError{StatusCode: status, Body: string(respBody), Err: err}
		log.WithFields(logrus.Fields{"attempt": attempt, "status_code": status}).WithError(last).Warn("⚠️ Falha ao gravar no Google Sheets")

		if attempt == c.maxAttempts {
			break
		}

		if attempt == 1 && status == http.StatusUnauthorized {
			log.Info("🔄 Token rejeitado, reautenticando...")
			c.creds.Invalidate()
			continue
		}

		if !c.wait(ctx, attempt) {
			return last
		}
	}

	return last
}

// wait dorme o backoff; false se o ctx acabou antes.
func (c *Client) wait(ctx context.Context, attempt int) bool {
	if c.backoff == 0 {
		return ctx.Err() == nil
	}
	c.log.WithField("attempt", attempt).Debugf("Retrying Google Sheets API call (%d/%d)...", attempt, c.maxAttempts)

	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// SetupSheetHeaders escreve o cabeçalho só se a primeira linha estiver vazia.
func (c *Client) SetupSheetHeaders(ctx context.Context) error {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return err
	}

	rangeURL := fmt.Sprintf("%s/%s/values/%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.sheetName+"!"+headerRange))

	status, respBody, err := c.do(ctx, http.MethodGet, rangeURL, nil)
	if err == nil && isSuccess(status) {
		var existing valueRange
		if json.Unmarshal(respBody, &existing) == nil && len(existing.Values) > 0 && len(existing.Values[0]) > 0 {
			c.log.Info("Headers already exist in the sheet")
			return nil
		}
	}

	body, err := json.Marshal(valueRange{Values: [][]string{HeaderRow}})
	if err != nil {
		return err
	}

	status, respBody, err = c.do(ctx, http.MethodPut, rangeURL+"?valueInputOption=USER_ENTERED", body)
	if err != nil {
		return fmt.Errorf("failed to set up headers: %w", err)
	}
	if !isSuccess(status) {
		return fmt.Errorf("failed to set up headers: %d - %s", status, string(respBody))
	}

	c.log.Info("✅ Cabeçalho do Google Sheets configurado")
	return nil
}

// VerifySheetAccess lê os metadados da planilha. Qualquer falha => false (e log).
func (c *Client) VerifySheetAccess(ctx context.Context) bool {
	if err := c.ensureAuthenticated(ctx); err != nil {
		c.log.WithError(err).Error("❌ Failed to verify Google Sheets access")
		return false
	}

	metaURL := fmt.Sprintf("%s/%s?fields=properties.title,sheets.properties", c.baseURL, url.PathEscape(c.spreadsheetID))

	status, respBody, err := c.do(ctx, http.MethodGet, metaURL, nil)
	if err != nil {
		c.log.WithError(err).Error("❌ Failed to verify Google Sheets access")
		return false
	}
	if !isSuccess(status) {
		c.log.WithFields(logrus.Fields{"status_code": status, "body": string(respBody)}).Error("❌ Cannot access spreadsheet")
		return false
	}

	var meta spreadsheetMetadata
	title := "Unknown"
	if json.Unmarshal(respBody, &meta) == nil && meta.Properties.Title != "" {
		title = meta.Properties.Title
	}
	c.log.WithField("title", title).Info("✅ Acesso ao Google Sheets verificado")
	return true
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	c.setHeaders(req, body != nil)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("erro request google sheets: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Authorization", "Bearer "+c.creds.CurrentToken())
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
