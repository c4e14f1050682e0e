package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"agropos/backend/internal/domain"
	"agropos/backend/internal/xid"
)

// settleEpsilon is the residual below which a debt counts as fully paid.
var settleEpsilon = decimal.NewFromFloat(0.01)

// ApplyPayment applies one validated payment to the debt in place and
// returns the payment record. Payments above the outstanding amount are
// rejected; once the residual falls within the settle epsilon it is clamped
// to zero and the debt becomes terminally paid. The caller must hold the
// lock that makes the surrounding read-modify-write exclusive.
func ApplyPayment(debt *domain.Debt, amount decimal.Decimal, now time.Time) (domain.DebtPayment, error) {
	if !amount.IsPositive() {
		return domain.DebtPayment{}, ErrInvalidPayment
	}
	if debt.Paid {
		return domain.DebtPayment{}, ErrAlreadySettled
	}
	if amount.GreaterThan(debt.Amount) {
		return domain.DebtPayment{}, ErrInvalidPayment
	}

	remaining := debt.Amount.Sub(amount)
	if remaining.LessThanOrEqual(settleEpsilon) {
		remaining = decimal.Zero
		debt.Paid = true
	}
	debt.Amount = remaining

	payment := domain.DebtPayment{
		ID:        xid.New("pay"),
		PaidAt:    now,
		Amount:    amount,
		Remaining: remaining,
	}
	debt.Payments = append(debt.Payments, payment)

	line := fmt.Sprintf("%s paid %s, remaining %s", now.Format("2006-01-02"), amount.StringFixed(2), remaining.StringFixed(2))
	if debt.Description == "" {
		debt.Description = line
	} else {
		debt.Description += "\n" + line
	}
	return payment, nil
}
