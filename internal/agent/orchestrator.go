package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/monitoring"
	"vyapaar-backend/pkg/logger"
)

// OrderResolution is the single shape both success paths are
// normalized into before posting, so there is exactly one posting code
// path regardless of whether the interpreter or the local heuristics
// produced the order.
type OrderResolution struct {
	Items        []ResolvedItem
	DocumentType string
	// Source is the raw interpreter document; nil on the fallback path.
	Source          json.RawMessage
	FromInterpreter bool
	// MessageID links the posting back to the chat message that
	// triggered it.
	MessageID *uuid.UUID
}

// PostingResult is the structured outcome of one command. The
// orchestrator always returns one of these, success or failure, never
// an unhandled fault.
type PostingResult struct {
	Success            bool               `json:"success"`
	Transaction        *model.Transaction `json:"transaction,omitempty"`
	NeedsClarification bool               `json:"needs_clarification,omitempty"`
	Questions          []string           `json:"questions,omitempty"`
	PartialDocument    json.RawMessage    `json:"partial_document,omitempty"`
	Message            string             `json:"message"`
}

// LedgerPoster persists one resolved order as an atomic posting:
// transaction + invoice number + customer balance + product stock,
// all-or-nothing.
type LedgerPoster interface {
	Post(ctx context.Context, customer *model.Customer, resolution *OrderResolution) (*model.Transaction, error)
}

// Orchestrator runs the remote-interpreter-with-local-fallback state
// machine. Single pass, no retries at this layer.
type Orchestrator struct {
	interpreter InterpreterClient
	resolver    *CatalogResolver
	poster      LedgerPoster
	log         zerolog.Logger
}

func NewOrchestrator(interpreter InterpreterClient, resolver *CatalogResolver, poster LedgerPoster) *Orchestrator {
	return &Orchestrator{
		interpreter: interpreter,
		resolver:    resolver,
		poster:      poster,
		log:         logger.WithComponent("agent"),
	}
}

// BuildCommand assembles the natural-language command sent to the
// interpreter from the customer name, extracted item hints and any
// extra seller context.
func BuildCommand(text, sellerContext string, customer *model.Customer) string {
	command := fmt.Sprintf("Generate GST invoice for %s", customer.Name)

	items := ExtractItems(text)
	if len(items) > 0 {
		hints := make([]string, len(items))
		for i, item := range items {
			hints[i] = fmt.Sprintf("%s%s %s", item.Quantity.String(), item.Unit, item.Name)
		}
		command += " with items: " + strings.Join(hints, ", ")
	}

	if strings.TrimSpace(sellerContext) != "" {
		command += ". Additional context: " + sellerContext
	}

	return command
}

// ProcessCommand turns one tagged message into a posted transaction,
// a clarification request, or a user-visible failure. messageID, when
// set, links the posting back to the triggering chat message.
func (o *Orchestrator) ProcessCommand(ctx context.Context, text, sellerContext string, customer *model.Customer, messageID *uuid.UUID) *PostingResult {
	command := BuildCommand(text, sellerContext, customer)
	o.log.Info().Str("customer", customer.Name).Str("command", command).Msg("processing command")

	interpretation, err := o.interpreter.Interpret(ctx, command)
	if err != nil {
		o.log.Warn().Err(err).Msg("interpreter unavailable, using local parsing")
		monitoring.InterpreterFallbacks.Inc()
		return o.fallback(ctx, text, customer, messageID)
	}

	if interpretation.NeedsClarification {
		monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeNeedsClarification).Inc()
		return &PostingResult{
			NeedsClarification: true,
			Questions:          interpretation.Questions,
			PartialDocument:    interpretation.PartialDocument,
			Message:            "Need more information",
		}
	}

	return o.postFromDocument(ctx, interpretation, customer, messageID)
}

// postFromDocument resolves an interpreter document's items (auto-
// provisioning unknown names, since the document carries its own
// pricing) and posts the order.
func (o *Orchestrator) postFromDocument(ctx context.Context, interpretation *Interpretation, customer *model.Customer, messageID *uuid.UUID) *PostingResult {
	doc := interpretation.Document

	resolved := make([]ResolvedItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		product, err := o.resolver.Resolve(ctx, item.Name(), AutoProvision, ItemHint{
			Unit:    item.Unit,
			Rate:    item.UnitRate(),
			GSTRate: item.GSTRate,
			HSNCode: item.HSNCode,
		})
		if err != nil {
			o.log.Error().Err(err).Str("item", item.Name()).Msg("failed to resolve document item")
			monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeError).Inc()
			return processingError()
		}

		rate := item.UnitRate()
		if rate.IsZero() {
			rate = product.Price
		}
		gstRate := item.GSTRate
		if gstRate.IsZero() {
			gstRate = product.GSTRate
		}
		quantity := item.Quantity
		if quantity.IsZero() {
			quantity = decimalOne
		}

		resolved = append(resolved, ResolvedItem{
			Product:  product,
			Quantity: quantity,
			Unit:     product.Unit,
			Rate:     rate,
			GSTRate:  gstRate,
			HSNCode:  firstNonEmpty(item.HSNCode, product.HSNCode),
		})
	}

	if len(resolved) == 0 {
		monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeNoItems).Inc()
		return noItemsResult()
	}

	documentType := doc.DocumentType
	if documentType == "" {
		documentType = model.DocumentTypeGSTInvoice
	}

	transaction, err := o.poster.Post(ctx, customer, &OrderResolution{
		Items:           resolved,
		DocumentType:    documentType,
		Source:          interpretation.RawDocument,
		FromInterpreter: true,
		MessageID:       messageID,
	})
	if err != nil {
		o.log.Error().Err(err).Msg("posting failed")
		monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeError).Inc()
		return processingError()
	}

	monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomePosted).Inc()
	return &PostingResult{
		Success:     true,
		Transaction: transaction,
		Message:     "Invoice generated successfully!",
	}
}

// fallback parses the original text locally. Resolution is strict: a
// manually-parsed order must not invent catalog entries, so an unknown
// name fails the whole order.
func (o *Orchestrator) fallback(ctx context.Context, text string, customer *model.Customer, messageID *uuid.UUID) *PostingResult {
	items := ExtractItems(text)
	if len(items) == 0 {
		monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeNoItems).Inc()
		return noItemsResult()
	}

	resolved := make([]ResolvedItem, 0, len(items))
	for _, item := range items {
		product, err := o.resolver.Resolve(ctx, item.Name, Strict, ItemHint{})
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeProductNotFound).Inc()
				return &PostingResult{
					Message: fmt.Sprintf("Product %q not found in inventory.", item.Name),
				}
			}
			o.log.Error().Err(err).Str("item", item.Name).Msg("failed to resolve item")
			monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeError).Inc()
			return processingError()
		}

		resolved = append(resolved, ResolvedItem{
			Product:  product,
			Quantity: item.Quantity,
			Unit:     product.Unit,
			Rate:     product.Price,
			GSTRate:  product.GSTRate,
			HSNCode:  product.HSNCode,
		})
	}

	transaction, err := o.poster.Post(ctx, customer, &OrderResolution{
		Items:        resolved,
		DocumentType: model.DocumentTypeGSTInvoice,
		MessageID:    messageID,
	})
	if err != nil {
		o.log.Error().Err(err).Msg("posting failed")
		monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomeError).Inc()
		return processingError()
	}

	monitoring.CommandsProcessed.WithLabelValues(monitoring.OutcomePosted).Inc()
	return &PostingResult{
		Success:     true,
		Transaction: transaction,
		Message:     "Invoice created (fallback mode)",
	}
}

func noItemsResult() *PostingResult {
	return &PostingResult{
		Message: "Could not understand the order. Please specify items with quantities.",
	}
}

func processingError() *PostingResult {
	return &PostingResult{
		Message: "Something went wrong while recording the order. Please try again.",
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
