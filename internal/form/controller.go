package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/lead-funnel/internal/usecase"
)

const (
	DefaultTimeout = 15 * time.Second

	MsgGenericFailure = "Something went wrong. Please try again."
	MsgThankYou       = "Thank you! Your information has been received. We'll be in touch shortly."
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrAlreadySubmitted   = errors.New("form already submitted; close it before submitting again")
	ErrInvalidForm        = errors.New("form has validation errors")
	ErrUnknownField       = errors.New("unknown form field")
)

// Controller espelha o formulário de contato: valida localmente e envia
// um POST URL-encoded para o endpoint (Apps Script ou o próprio POST /leads).
type Controller struct {
	mu       sync.Mutex
	endpoint string
	client   *http.Client

	state   State
	fields  usecase.LeadForm
	errs    map[string]string
	failure error
}

func NewController(endpoint string, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		errs:     map[string]string{},
	}
}

// WithHTTPClient troca o client (o timeout passa a ser o dele).
func (c *Controller) WithHTTPClient(client *http.Client) *Controller {
	c.client = client
	return c
}

// SetField altera um campo e limpa o erro dele.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Editable() {
		return fmt.Errorf("form is %s", c.state)
	}

	switch name {
	case "name":
		c.fields.Name = value
	case "email":
		c.fields.Email = value
	case "phone":
		c.fields.Phone = value
	case "company":
		c.fields.Company = value
	case "message":
		c.fields.Message = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	delete(c.errs, name)
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Fields() usecase.LeadForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}

// Message é o texto mostrado ao usuário no estado atual.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateSuccess:
		return MsgThankYou
	case StateError:
		return MsgGenericFailure
	default:
		return ""
	}
}

// Failure é a causa técnica do último erro de envio (nil fora do estado error).
func (c *Controller) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Submit valida e envia. Inválido => ErrInvalidForm sem nenhuma chamada de rede.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmissionInFlight
	case StateSuccess:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}

	if errs := usecase.ValidateLeadForm(c.fields); len(errs) > 0 {
		c.errs = errs
		c.mu.Unlock()
		return ErrInvalidForm
	}

	c.errs = map[string]string{}
	c.failure = nil
	c.state = StateSubmitting
	snapshot := c.fields
	c.mu.Unlock()

	err := c.send(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.failure = err
		return err
	}
	c.state = StateSuccess
	return nil
}

// Close depois do sucesso zera tudo e volta pro idle.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return
	}
	if c.state == StateSuccess {
		c.fields = usecase.LeadForm{}
	}
	c.errs = map[string]string{}
	c.failure = nil
	c.state = StateIdle
}

type submitResponse struct {
	OK *bool `json:"ok"`
}

func (c *Controller) send(ctx context.Context, f usecase.LeadForm) error {
	body := url.Values{
		"name":    {f.Name},
		"email":   {f.Email},
		"phone":   {f.Phone},
		"company": {f.Company},
		"message": {f.Message},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return err
	}
	// Só o content-type do próprio body: header simples, sem preflight.
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submission rejected (status %d)", resp.StatusCode)
	}

	var out submitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	if out.OK != nil && !*out.OK {
		return errors.New("submission rejected by endpoint")
	}
	return nil
}
