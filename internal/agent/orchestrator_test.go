package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"vyapaar-backend/internal/model"
)

type fakeInterpreter struct {
	result *Interpretation
	err    error
}

func (f *fakeInterpreter) Interpret(ctx context.Context, command string) (*Interpretation, error) {
	return f.result, f.err
}

type fakePoster struct {
	posted []*OrderResolution
	err    error
}

func (f *fakePoster) Post(ctx context.Context, customer *model.Customer, resolution *OrderResolution) (*model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.posted = append(f.posted, resolution)
	lines, totals := PriceItems(resolution.Items)
	return &model.Transaction{
		InvoiceNumber: "INV/2026/0001",
		Items:         lines,
		Subtotal:      totals.Subtotal,
		GSTAmount:     totals.GSTAmount,
		TotalAmount:   totals.Total,
	}, nil
}

func testCustomer(name string) *model.Customer {
	return &model.Customer{Name: name}
}

func TestBuildCommand(t *testing.T) {
	cmd := BuildCommand("5kg rice and 2 liters oil", "", testCustomer("Ramesh Traders"))
	if !strings.HasPrefix(cmd, "Generate GST invoice for Ramesh Traders") {
		t.Fatalf("unexpected command prefix: %q", cmd)
	}
	if !strings.Contains(cmd, "5kg rice") || !strings.Contains(cmd, "2ltr oil") {
		t.Fatalf("item hints missing from command: %q", cmd)
	}
}

func TestBuildCommandWithContext(t *testing.T) {
	cmd := BuildCommand("hello", "regular customer, 5% discount", testCustomer("Ramesh"))
	if !strings.Contains(cmd, "Additional context: regular customer, 5% discount") {
		t.Fatalf("seller context missing: %q", cmd)
	}
}

func TestProcessCommandInterpreterSuccess(t *testing.T) {
	repo := &fakeProductRepo{}
	poster := &fakePoster{}
	doc := &InvoiceDocument{
		DocumentType: "gst_invoice",
		Items: []InvoiceItem{
			{Description: "rice", Quantity: decimal.NewFromInt(5), Unit: UnitMass, Rate: decimal.NewFromInt(50), GSTRate: decimal.NewFromInt(5)},
		},
	}
	raw, _ := json.Marshal(doc)
	orch := NewOrchestrator(
		&fakeInterpreter{result: &Interpretation{Document: doc, RawDocument: raw}},
		newTestResolver(repo),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "5kg rice", "", testCustomer("Ramesh"), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Transaction == nil || result.Transaction.InvoiceNumber == "" {
		t.Fatalf("expected a posted transaction")
	}
	if len(poster.posted) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(poster.posted))
	}
	if !poster.posted[0].FromInterpreter {
		t.Fatalf("posting should be marked interpreter-sourced")
	}
	if len(poster.posted[0].Source) == 0 {
		t.Fatalf("raw document should travel with the posting")
	}
	// "rice" was unknown, so the document path auto-provisions it.
	if repo.created != 1 {
		t.Fatalf("expected auto-provisioned product, created=%d", repo.created)
	}
}

func TestProcessCommandClarification(t *testing.T) {
	poster := &fakePoster{}
	orch := NewOrchestrator(
		&fakeInterpreter{result: &Interpretation{
			NeedsClarification: true,
			Questions:          []string{"Which rice?"},
			PartialDocument:    json.RawMessage(`{"customer_name":"Ramesh"}`),
		}},
		newTestResolver(&fakeProductRepo{}),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "some rice", "", testCustomer("Ramesh"), nil)
	if result.Success {
		t.Fatalf("clarification must not be a success")
	}
	if !result.NeedsClarification {
		t.Fatalf("expected clarification flag")
	}
	if len(result.Questions) != 1 || result.Questions[0] != "Which rice?" {
		t.Fatalf("questions not passed through verbatim: %v", result.Questions)
	}
	if len(result.PartialDocument) == 0 {
		t.Fatalf("partial document not passed through")
	}
	if len(poster.posted) != 0 {
		t.Fatalf("clarification must not post anything")
	}
}

func TestProcessCommandFallbackPosts(t *testing.T) {
	repo := &fakeProductRepo{}
	rice := testProduct("rice", 50, 5)
	repo.products = append(repo.products, rice)
	poster := &fakePoster{}
	orch := NewOrchestrator(
		&fakeInterpreter{err: ErrInterpreterUnavailable},
		newTestResolver(repo),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "5kg rice", "", testCustomer("Ramesh"), nil)
	if !result.Success {
		t.Fatalf("expected fallback success, got %+v", result)
	}
	if len(poster.posted) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(poster.posted))
	}
	res := poster.posted[0]
	if res.FromInterpreter {
		t.Fatalf("fallback posting must not be marked interpreter-sourced")
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 resolved item, got %d", len(res.Items))
	}
	if !res.Items[0].Rate.Equal(rice.Price) {
		t.Fatalf("fallback must price from the catalog, got %s", res.Items[0].Rate)
	}
}

func TestProcessCommandFallbackUnknownProduct(t *testing.T) {
	repo := &fakeProductRepo{}
	poster := &fakePoster{}
	orch := NewOrchestrator(
		&fakeInterpreter{err: ErrInterpreterUnavailable},
		newTestResolver(repo),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "5kg unobtainium", "", testCustomer("Ramesh"), nil)
	if result.Success {
		t.Fatalf("unknown product must fail")
	}
	if !strings.Contains(result.Message, "unobtainium") {
		t.Fatalf("failure message should name the product: %q", result.Message)
	}
	// Strict mode: nothing provisioned, nothing posted.
	if repo.created != 0 {
		t.Fatalf("fallback must not provision products")
	}
	if len(poster.posted) != 0 {
		t.Fatalf("failed resolution must not post")
	}
}

func TestProcessCommandFallbackNoItems(t *testing.T) {
	poster := &fakePoster{}
	orch := NewOrchestrator(
		&fakeInterpreter{err: ErrInterpreterUnavailable},
		newTestResolver(&fakeProductRepo{}),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "hello, how are you", "", testCustomer("Ramesh"), nil)
	if result.Success || result.NeedsClarification {
		t.Fatalf("expected a plain failure, got %+v", result)
	}
	if result.Message == "" {
		t.Fatalf("expected a user-facing message")
	}
	if len(poster.posted) != 0 {
		t.Fatalf("nothing should be posted")
	}
}

func TestProcessCommandPostingFailure(t *testing.T) {
	repo := &fakeProductRepo{}
	repo.products = append(repo.products, testProduct("rice", 50, 5))
	poster := &fakePoster{err: ErrPersistence}
	orch := NewOrchestrator(
		&fakeInterpreter{err: ErrInterpreterUnavailable},
		newTestResolver(repo),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "5kg rice", "", testCustomer("Ramesh"), nil)
	if result.Success {
		t.Fatalf("posting failure must not report success")
	}
	if result.Transaction != nil {
		t.Fatalf("no transaction should be attached on failure")
	}
}

func TestProcessCommandDocumentDefaults(t *testing.T) {
	repo := &fakeProductRepo{}
	known := testProduct("sugar", 40, 5)
	repo.products = append(repo.products, known)
	poster := &fakePoster{}

	// Item with no quantity, rate or gst: quantity defaults to 1 and
	// pricing falls back to the catalog entry.
	doc := &InvoiceDocument{Items: []InvoiceItem{{Description: "sugar"}}}
	raw, _ := json.Marshal(doc)
	orch := NewOrchestrator(
		&fakeInterpreter{result: &Interpretation{Document: doc, RawDocument: raw}},
		newTestResolver(repo),
		poster,
	)

	result := orch.ProcessCommand(context.Background(), "sugar", "", testCustomer("Ramesh"), nil)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	item := poster.posted[0].Items[0]
	if !item.Quantity.Equal(decimalOne) {
		t.Fatalf("expected default quantity 1, got %s", item.Quantity)
	}
	if !item.Rate.Equal(known.Price) {
		t.Fatalf("expected catalog rate fallback, got %s", item.Rate)
	}
	if !item.GSTRate.Equal(known.GSTRate) {
		t.Fatalf("expected catalog gst fallback, got %s", item.GSTRate)
	}
	if poster.posted[0].DocumentType != model.DocumentTypeGSTInvoice {
		t.Fatalf("expected default document type, got %q", poster.posted[0].DocumentType)
	}
}
