package agent

import "fmt"

// FormatInvoiceNumber renders a sale invoice number: INV/<year>/<seq>,
// sequence zero-padded to 4 digits. Globally unique because the
// sequence comes from the per-year atomic counter.
func FormatInvoiceNumber(year int, sequence int64) string {
	return fmt.Sprintf("INV/%d/%04d", year, sequence)
}
