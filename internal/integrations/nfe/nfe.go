// Package nfe extracts a transaction draft from an NF-e invoice XML
// document so a sale can be recorded without retyping it.
package nfe

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// InvoiceDraft carries the fields of an invoice this system cares about.
type InvoiceDraft struct {
	Description string
	Emitter     string
	Amount      decimal.Decimal
	IssueDate   time.Time
}

// ParseInvoice reads an NF-e XML document and returns a draft for the
// corresponding revenue entry. The invoice total (vNF) is mandatory; the
// issue date is left zero when dhEmi is absent or malformed, and the caller
// decides the fallback.
func ParseInvoice(data []byte) (*InvoiceDraft, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse invoice XML: %w", err)
	}

	totalElement := doc.FindElement("//total/ICMSTot/vNF")
	if totalElement == nil {
		return nil, fmt.Errorf("invoice total (vNF) not found")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(totalElement.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid invoice total %q: %w", totalElement.Text(), err)
	}

	draft := &InvoiceDraft{Amount: amount}

	if emit := doc.FindElement("//emit/xNome"); emit != nil {
		draft.Emitter = strings.TrimSpace(emit.Text())
	}
	if nat := doc.FindElement("//ide/natOp"); nat != nil {
		draft.Description = strings.TrimSpace(nat.Text())
	}
	if draft.Description == "" {
		draft.Description = "Nota fiscal importada"
	}

	if issued := doc.FindElement("//ide/dhEmi"); issued != nil {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(issued.Text())); err == nil {
			draft.IssueDate = ts
		}
	}
	return draft, nil
}
