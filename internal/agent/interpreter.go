package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"vyapaar-backend/pkg/logger"
)

// Interpreter response status discriminants.
const (
	statusSuccess            = "success"
	statusNeedsClarification = "needs_clarification"
)

// InvoiceItem is one line of an interpreter-generated document. The
// interpreter emits two spellings for names and rates depending on the
// document schema, so both are accepted.
type InvoiceItem struct {
	Description  string          `json:"description"`
	ItemName     string          `json:"item_name"`
	HSNCode      string          `json:"hsn_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
}

// Name returns whichever name field the document carried.
func (it InvoiceItem) Name() string {
	if it.Description != "" {
		return it.Description
	}
	return it.ItemName
}

// UnitRate returns whichever rate field the document carried.
func (it InvoiceItem) UnitRate() decimal.Decimal {
	if !it.Rate.IsZero() {
		return it.Rate
	}
	return it.PricePerUnit
}

// InvoiceDocument is the structured order the interpreter produced.
type InvoiceDocument struct {
	DocumentType string        `json:"document_type"`
	CustomerName string        `json:"customer_name"`
	Items        []InvoiceItem `json:"items"`
}

// Interpretation is the decoded three-way outcome of an interpreter
// call. A nil-error Interpretation is either a complete document or a
// clarification request; a transport/timeout/unknown-status problem is
// reported as an error instead (the caller's signal to fall back).
type Interpretation struct {
	NeedsClarification bool
	Questions          []string
	PartialDocument    json.RawMessage
	Document           *InvoiceDocument
	// RawDocument is the document exactly as the interpreter sent it,
	// kept on the transaction for audit/debug.
	RawDocument json.RawMessage
}

// InterpreterClient is the external command-interpretation service.
type InterpreterClient interface {
	Interpret(ctx context.Context, command string) (*Interpretation, error)
}

type interpreterResponse struct {
	Status                 string          `json:"status"`
	Message                string          `json:"message"`
	Document               json.RawMessage `json:"document"`
	ClarificationQuestions []string        `json:"clarification_questions"`
	PartialDocument        json.RawMessage `json:"partial_document"`
}

// HTTPInterpreterClient talks to the interpreter over a single
// bounded-timeout GET request.
type HTTPInterpreterClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewInterpreterClient(baseURL string, timeout time.Duration) *HTTPInterpreterClient {
	return &HTTPInterpreterClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.WithComponent("interpreter-client"),
	}
}

func (c *HTTPInterpreterClient) Interpret(ctx context.Context, command string) (*Interpretation, error) {
	endpoint := c.baseURL + "/invoice?command=" + url.QueryEscape(command)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterpreterUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("interpreter request failed")
		return nil, fmt.Errorf("%w: %v", ErrInterpreterUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("interpreter returned non-OK status")
		return nil, fmt.Errorf("%w: http status %d", ErrInterpreterUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterpreterUnavailable, err)
	}

	var decoded interpreterResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrInterpreterUnavailable, err)
	}

	switch decoded.Status {
	case statusSuccess:
		var doc InvoiceDocument
		if err := json.Unmarshal(decoded.Document, &doc); err != nil {
			return nil, fmt.Errorf("%w: malformed document: %v", ErrInterpreterUnavailable, err)
		}
		return &Interpretation{
			Document:    &doc,
			RawDocument: decoded.Document,
		}, nil

	case statusNeedsClarification:
		return &Interpretation{
			NeedsClarification: true,
			Questions:          decoded.ClarificationQuestions,
			PartialDocument:    decoded.PartialDocument,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unexpected status %q", ErrInterpreterUnavailable, decoded.Status)
	}
}
