package agent

import "testing"

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		year     int
		sequence int64
		want     string
	}{
		{2025, 1, "INV/2025/0001"},
		{2026, 42, "INV/2026/0042"},
		{2026, 9999, "INV/2026/9999"},
		{2026, 10000, "INV/2026/10000"}, // pad widens past 4 digits
	}
	for _, c := range cases {
		if got := FormatInvoiceNumber(c.year, c.sequence); got != c.want {
			t.Fatalf("FormatInvoiceNumber(%d, %d) = %q, want %q", c.year, c.sequence, got, c.want)
		}
	}
}
