package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInterpretSuccess(t *testing.T) {
	var gotCommand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCommand = r.URL.Query().Get("command")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"document": {
				"document_type": "gst_invoice",
				"customer_name": "Ramesh Traders",
				"items": [
					{"description": "rice", "quantity": "5", "unit": "kg", "rate": "50", "gst_rate": "5"}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	result, err := client.Interpret(context.Background(), "Generate GST invoice for Ramesh Traders with items: 5kg rice")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if gotCommand != "Generate GST invoice for Ramesh Traders with items: 5kg rice" {
		t.Fatalf("command not forwarded verbatim: %q", gotCommand)
	}
	if result.NeedsClarification {
		t.Fatalf("unexpected clarification request")
	}
	if result.Document == nil || len(result.Document.Items) != 1 {
		t.Fatalf("expected a 1-item document, got %+v", result.Document)
	}
	item := result.Document.Items[0]
	if item.Name() != "rice" {
		t.Fatalf("expected item name rice, got %q", item.Name())
	}
	if !item.UnitRate().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected rate 50, got %s", item.UnitRate())
	}
	if len(result.RawDocument) == 0 {
		t.Fatalf("raw document should be preserved")
	}
}

func TestInterpretAlternateItemKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "success",
			"document": {
				"items": [
					{"item_name": "oil", "quantity": "2", "price_per_unit": "120"}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	result, err := client.Interpret(context.Background(), "cmd")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	item := result.Document.Items[0]
	if item.Name() != "oil" {
		t.Fatalf("item_name key not honored, got %q", item.Name())
	}
	if !item.UnitRate().Equal(decimal.NewFromInt(120)) {
		t.Fatalf("price_per_unit key not honored, got %s", item.UnitRate())
	}
}

func TestInterpretNeedsClarification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "needs_clarification",
			"clarification_questions": ["Which rice brand?", "What quantity?"],
			"partial_document": {"customer_name": "Ramesh Traders"}
		}`))
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	result, err := client.Interpret(context.Background(), "cmd")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if !result.NeedsClarification {
		t.Fatalf("expected clarification request")
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %v", result.Questions)
	}
	if len(result.PartialDocument) == 0 {
		t.Fatalf("partial document should be preserved")
	}
}

func TestInterpretServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	_, err := client.Interpret(context.Background(), "cmd")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("expected ErrInterpreterUnavailable, got %v", err)
	}
}

func TestInterpretUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "processing"}`))
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	_, err := client.Interpret(context.Background(), "cmd")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("expected ErrInterpreterUnavailable for unknown status, got %v", err)
	}
}

func TestInterpretTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 20*time.Millisecond)
	_, err := client.Interpret(context.Background(), "cmd")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("expected ErrInterpreterUnavailable on timeout, got %v", err)
	}
}

func TestInterpretMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewInterpreterClient(srv.URL, 5*time.Second)
	_, err := client.Interpret(context.Background(), "cmd")
	if !errors.Is(err, ErrInterpreterUnavailable) {
		t.Fatalf("expected ErrInterpreterUnavailable for malformed body, got %v", err)
	}
}
