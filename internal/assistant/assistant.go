// Package assistant wraps the external text-completion service behind a
// small interface. The assistant only reads store context; a failing call
// must never touch catalog or ledger state.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agropos/backend/internal/domain"
)

var ErrService = errors.New("assistant service unavailable")

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Noop is used when no assistant endpoint is configured; every call fails
// with ErrService so the caller can show a visible error instead of a reply.
type Noop struct{}

func (Noop) Complete(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("%w: no endpoint configured", ErrService)
}

// StoreContext is the data summary prepended to every prompt so the model
// can answer questions about the shop.
type StoreContext struct {
	ProductCount int
	SaleCount    int
	LowStock     []string
}

func BuildPrompt(sc StoreContext, history []domain.ChatMessage, message string) string {
	var b strings.Builder
	b.WriteString("You are the assistant for a small agro shop.\n")
	fmt.Fprintf(&b, "Store context: %d products, %d recorded sales.\n", sc.ProductCount, sc.SaleCount)
	if len(sc.LowStock) > 0 {
		fmt.Fprintf(&b, "Low stock products: %s.\n", strings.Join(sc.LowStock, ", "))
	} else {
		b.WriteString("No products are low on stock.\n")
	}
	for _, msg := range history {
		role := "User"
		if msg.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, strings.TrimSpace(msg.Text))
	}
	fmt.Fprintf(&b, "User: %s\n", strings.TrimSpace(message))
	return b.String()
}
