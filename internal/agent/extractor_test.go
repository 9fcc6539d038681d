package agent

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractItemsSingle(t *testing.T) {
	items := ExtractItems("5kg rice")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %v", len(items), items)
	}
	if !items[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected quantity 5, got %s", items[0].Quantity)
	}
	if items[0].Unit != UnitMass {
		t.Fatalf("expected unit %q, got %q", UnitMass, items[0].Unit)
	}
	if items[0].Name != "rice" {
		t.Fatalf("expected name rice, got %q", items[0].Name)
	}
}

func TestExtractItemsMultiple(t *testing.T) {
	items := ExtractItems("send 2 liters oil and 10 packets sugar")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(items), items)
	}

	if items[0].Unit != UnitVolume || items[0].Name != "oil" {
		t.Fatalf("first item wrong: %+v", items[0])
	}
	if !items[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected quantity 2, got %s", items[0].Quantity)
	}

	if items[1].Unit != UnitCount || items[1].Name != "sugar" {
		t.Fatalf("second item wrong: %+v", items[1])
	}
	if !items[1].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected quantity 10, got %s", items[1].Quantity)
	}
}

func TestExtractItemsFallbackUnit(t *testing.T) {
	items := ExtractItems("3 widgets")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Unit != UnitCount {
		t.Fatalf("expected default unit %q, got %q", UnitCount, items[0].Unit)
	}
	if items[0].Name != "widgets" {
		t.Fatalf("expected name widgets, got %q", items[0].Name)
	}
}

func TestExtractItemsDecimalQuantity(t *testing.T) {
	items := ExtractItems("2.5 kg of wheat flour")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want, _ := decimal.NewFromString("2.5")
	if !items[0].Quantity.Equal(want) {
		t.Fatalf("expected quantity 2.5, got %s", items[0].Quantity)
	}
	if items[0].Name != "wheat flour" {
		t.Fatalf("expected name wheat flour, got %q", items[0].Name)
	}
}

func TestExtractItemsUnitSynonyms(t *testing.T) {
	cases := []struct {
		text string
		unit string
	}{
		{"2 kilograms rice", UnitMass},
		{"4 litres milk", UnitVolume},
		{"1 ltr oil", UnitVolume},
		{"6 pcs soap", UnitCount},
		{"3 packs biscuits", UnitCount},
	}
	for _, c := range cases {
		items := ExtractItems(c.text)
		if len(items) != 1 {
			t.Fatalf("%q: expected 1 item, got %d", c.text, len(items))
		}
		if items[0].Unit != c.unit {
			t.Fatalf("%q: expected unit %q, got %q", c.text, c.unit, items[0].Unit)
		}
	}
}

func TestExtractItemsNoDuplicates(t *testing.T) {
	// The generic fallback pattern must not re-match a span already
	// consumed by the kg pattern.
	items := ExtractItems("5kg rice")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %v", len(items), items)
	}
}

func TestExtractItemsEmpty(t *testing.T) {
	for _, text := range []string{"", "hello there", "please call me back"} {
		if items := ExtractItems(text); len(items) != 0 {
			t.Fatalf("%q: expected no items, got %v", text, items)
		}
	}
}

func TestExtractItemsCaseInsensitive(t *testing.T) {
	items := ExtractItems("5KG Rice")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Unit != UnitMass || items[0].Name != "rice" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}
