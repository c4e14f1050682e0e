// Package ledger implements lot-based stock accounting: every intake becomes
// a batch with its own cost, and sales consume the oldest batches first so
// cost of goods sold can reflect actual purchase cost.
package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"agropos/backend/internal/domain"
	"agropos/backend/internal/store"
)

// Append adds a new lot with its full quantity remaining. Lots are never
// merged, even when the unit cost matches an existing one. The caller owns
// the product's aggregate stock counter and must increment it separately.
func Append(batches []domain.Batch, id string, qty int, unitCost decimal.Decimal, receivedAt time.Time) []domain.Batch {
	return append(batches, domain.Batch{
		ID:         id,
		ReceivedAt: receivedAt,
		Remaining:  qty,
		UnitCost:   unitCost,
	})
}

// TotalRemaining sums remaining quantity across batches. A product's stock
// counter must always equal this sum.
func TotalRemaining(batches []domain.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Remaining
	}
	return total
}

// DepleteFIFO consumes qty units oldest-first and returns the surviving
// batches; fully consumed lots are dropped. The input slice is not modified.
// If qty exceeds the total remaining the input is returned unchanged with
// store.ErrInsufficientStock, so a failed depletion never commits partially.
func DepleteFIFO(batches []domain.Batch, qty int) ([]domain.Batch, error) {
	if qty <= 0 {
		return batches, store.ErrValidation
	}
	if TotalRemaining(batches) < qty {
		return batches, store.ErrInsufficientStock
	}

	sorted := sortedByAge(batches)
	need := qty
	result := make([]domain.Batch, 0, len(sorted))
	for _, b := range sorted {
		if need == 0 {
			result = append(result, b)
			continue
		}
		used := min(need, b.Remaining)
		b.Remaining -= used
		need -= used
		if b.Remaining > 0 {
			result = append(result, b)
		}
	}
	return result, nil
}

// CostOfUnits walks the same oldest-first order as DepleteFIFO but read-only,
// returning the lot-accurate cost of the next qty units. This is the accurate
// alternative to pricing every unit at the product's current purchase price.
func CostOfUnits(batches []domain.Batch, qty int) (decimal.Decimal, error) {
	if qty <= 0 {
		return decimal.Zero, store.ErrValidation
	}
	if TotalRemaining(batches) < qty {
		return decimal.Zero, store.ErrInsufficientStock
	}

	need := qty
	cost := decimal.Zero
	for _, b := range sortedByAge(batches) {
		if need == 0 {
			break
		}
		used := min(need, b.Remaining)
		cost = cost.Add(b.UnitCost.Mul(decimal.NewFromInt(int64(used))))
		need -= used
	}
	return cost, nil
}

// sortedByAge clones and stable-sorts ascending by acquisition time, so lots
// received at the same instant keep their acquisition order.
func sortedByAge(batches []domain.Batch) []domain.Batch {
	sorted := make([]domain.Batch, len(batches))
	copy(sorted, batches)
	slices.SortStableFunc(sorted, func(a, b domain.Batch) int {
		return a.ReceivedAt.Compare(b.ReceivedAt)
	})
	return sorted
}
