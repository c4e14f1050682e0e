package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"agropos/backend/internal/assistant"
	"agropos/backend/internal/cache"
	"agropos/backend/internal/domain"
	"agropos/backend/internal/ledger"
	"agropos/backend/internal/store"
	"agropos/backend/internal/store/memory"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func newTestService() *Service {
	return newTestServiceWith(stubCompleter{reply: "ok"}, false)
}

func newTestServiceWith(completer assistant.Completer, lotAccurate bool) *Service {
	repo := memory.New()
	carts := cache.NewMemoryCartStore()
	return New(repo, carts, completer, time.Hour, 5, lotAccurate)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func registerSeed(t *testing.T, svc *Service) domain.Product {
	t.Helper()
	product, err := svc.RegisterProduct(context.Background(), domain.ProductCreateRequest{
		Name:          "Maize Seed",
		Category:      "seed",
		Price:         dec("10"),
		PurchasePrice: dec("6"),
		Stock:         20,
	})
	if err != nil {
		t.Fatalf("register product failed: %v", err)
	}
	return product
}

func fillCart(t *testing.T, svc *Service, sessionID string, productID string, qty int) {
	t.Helper()
	_, err := svc.AddToCart(context.Background(), sessionID, domain.AddToCartRequest{
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func TestSupplyUpdatesPricesAndAppendsBatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	registerSeed(t, svc)

	product, err := svc.RecordSupply(ctx, domain.SupplyCreateRequest{
		Supplier:      "AgroSupply",
		ItemName:      "Maize Seed",
		Category:      "seed",
		PurchasePrice: dec("7"),
		Price:         dec("12"),
		Quantity:      10,
	})
	if err != nil {
		t.Fatalf("record supply failed: %v", err)
	}

	if product.Stock != 30 {
		t.Fatalf("expected stock 30, got %d", product.Stock)
	}
	if !product.Price.Equal(dec("12")) || !product.PurchasePrice.Equal(dec("7")) {
		t.Fatalf("expected prices 12/7, got %s/%s", product.Price, product.PurchasePrice)
	}
	if len(product.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(product.Batches))
	}
	if ledger.TotalRemaining(product.Batches) != product.Stock {
		t.Fatalf("stock %d does not match batch total %d", product.Stock, ledger.TotalRemaining(product.Batches))
	}
}

func TestSupplyForUnknownItemCreatesProduct(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	product, err := svc.RecordSupply(ctx, domain.SupplyCreateRequest{
		Supplier:      "AgroSupply",
		ItemName:      "Drip Hose",
		Category:      "equipment",
		PurchasePrice: dec("4"),
		Price:         dec("7.50"),
		Quantity:      15,
	})
	if err != nil {
		t.Fatalf("record supply failed: %v", err)
	}
	if product.Stock != 15 || len(product.Batches) != 1 {
		t.Fatalf("expected fresh product with one batch of 15, got stock=%d batches=%d", product.Stock, len(product.Batches))
	}

	found, err := svc.FindProductByName(ctx, "drip hose")
	if err != nil {
		t.Fatalf("lookup by name failed: %v", err)
	}
	if found.ID != product.ID {
		t.Fatalf("expected lookup to return the created product")
	}
}

func TestCheckoutDepletesOldestBatchFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	_, err := svc.RecordSupply(ctx, domain.SupplyCreateRequest{
		Supplier:      "AgroSupply",
		ItemName:      "Maize Seed",
		Category:      "seed",
		PurchasePrice: dec("7"),
		Price:         dec("12"),
		Quantity:      10,
	})
	if err != nil {
		t.Fatalf("record supply failed: %v", err)
	}

	fillCart(t, svc, "sess-fifo", seed.ID, 25)
	sale, err := svc.Checkout(ctx, "sess-fifo", domain.CheckoutRequest{Settlement: domain.SettlementCash})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !sale.Total.Equal(dec("300")) {
		t.Fatalf("expected total 300, got %s", sale.Total)
	}

	product, err := svc.GetProduct(ctx, seed.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", product.Stock)
	}
	if len(product.Batches) != 1 {
		t.Fatalf("expected the first batch to be gone, got %d batches", len(product.Batches))
	}
	if product.Batches[0].Remaining != 5 || !product.Batches[0].UnitCost.Equal(dec("7")) {
		t.Fatalf("expected 5 units left at cost 7, got %d at %s", product.Batches[0].Remaining, product.Batches[0].UnitCost)
	}
	if ledger.TotalRemaining(product.Batches) != product.Stock {
		t.Fatalf("stock %d does not match batch total %d", product.Stock, ledger.TotalRemaining(product.Batches))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService()

	_, err := svc.Checkout(context.Background(), "sess-empty", domain.CheckoutRequest{Settlement: domain.SettlementCash})
	if !errors.Is(err, store.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutDebtRequiresDebtorName(t *testing.T) {
	svc := newTestService()
	seed := registerSeed(t, svc)
	fillCart(t, svc, "sess-debtor", seed.ID, 1)

	_, err := svc.Checkout(context.Background(), "sess-debtor", domain.CheckoutRequest{
		Settlement: domain.SettlementDebt,
		DebtorName: "   ",
	})
	if !errors.Is(err, store.ErrMissingDebtor) {
		t.Fatalf("expected ErrMissingDebtor, got %v", err)
	}

	cart, err := svc.GetCart(context.Background(), "sess-debtor")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected cart to survive failed checkout")
	}
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	svc := newTestService()
	seed := registerSeed(t, svc)

	_, err := svc.AddToCart(context.Background(), "sess-over", domain.AddToCartRequest{
		ProductID: seed.ID,
		Quantity:  21,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	fillCart(t, svc, "sess-over", seed.ID, 15)
	_, err = svc.AddToCart(context.Background(), "sess-over", domain.AddToCartRequest{
		ProductID: seed.ID,
		Quantity:  6,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock on cumulative quantity, got %v", err)
	}
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	svc := newTestService()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-a", seed.ID, 2)
	fillCart(t, svc, "sess-b", seed.ID, 5)

	cartA, err := svc.GetCart(context.Background(), "sess-a")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cartA.Items) != 1 || cartA.Items[0].Quantity != 2 {
		t.Fatalf("expected session a to hold 2 units, got %+v", cartA.Items)
	}

	if err := svc.ClearCart(context.Background(), "sess-a"); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	cartB, err := svc.GetCart(context.Background(), "sess-b")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cartB.Items) != 1 || cartB.Items[0].Quantity != 5 {
		t.Fatalf("expected session b untouched, got %+v", cartB.Items)
	}
}

func TestDebtLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-debt", seed.ID, 3)
	sale, err := svc.Checkout(ctx, "sess-debt", domain.CheckoutRequest{
		Settlement: domain.SettlementDebt,
		DebtorName: "Arben",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !sale.Total.Equal(dec("30")) {
		t.Fatalf("expected total 30, got %s", sale.Total)
	}

	debts, err := svc.ListDebts(ctx, false)
	if err != nil {
		t.Fatalf("list debts failed: %v", err)
	}
	if len(debts) != 1 || debts[0].DebtorName != "Arben" {
		t.Fatalf("expected one open debt for Arben, got %+v", debts)
	}
	debtID := debts[0].ID

	partial, err := svc.PayDebt(ctx, debtID, domain.DebtPaymentRequest{Amount: dec("10")})
	if err != nil {
		t.Fatalf("partial payment failed: %v", err)
	}
	if partial.Paid || !partial.Amount.Equal(dec("20")) {
		t.Fatalf("expected open debt of 20, got paid=%v amount=%s", partial.Paid, partial.Amount)
	}
	if len(partial.Payments) != 1 {
		t.Fatalf("expected one payment entry, got %d", len(partial.Payments))
	}

	settled, err := svc.PayDebt(ctx, debtID, domain.DebtPaymentRequest{Amount: dec("20")})
	if err != nil {
		t.Fatalf("settling payment failed: %v", err)
	}
	if !settled.Paid || !settled.Amount.IsZero() {
		t.Fatalf("expected settled debt at zero, got paid=%v amount=%s", settled.Paid, settled.Amount)
	}

	_, err = svc.PayDebt(ctx, debtID, domain.DebtPaymentRequest{Amount: dec("1")})
	if !errors.Is(err, store.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}
}

func TestPayDebtClampsWithinEpsilon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-eps", seed.ID, 1)
	_, err := svc.Checkout(ctx, "sess-eps", domain.CheckoutRequest{
		Settlement: domain.SettlementDebt,
		DebtorName: "Vera",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	debts, err := svc.ListDebts(ctx, false)
	if err != nil || len(debts) != 1 {
		t.Fatalf("expected one debt, got %v %v", debts, err)
	}

	debt, err := svc.PayDebt(ctx, debts[0].ID, domain.DebtPaymentRequest{Amount: dec("9.995")})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if !debt.Paid || !debt.Amount.IsZero() {
		t.Fatalf("expected residual within epsilon to settle at zero, got paid=%v amount=%s", debt.Paid, debt.Amount)
	}

	_, err = svc.PayDebt(ctx, debts[0].ID, domain.DebtPaymentRequest{Amount: dec("-1")})
	if !errors.Is(err, store.ErrAlreadySettled) && !errors.Is(err, store.ErrInvalidPayment) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestPayDebtRejectsOverpayment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-overpay", seed.ID, 1)
	if _, err := svc.Checkout(ctx, "sess-overpay", domain.CheckoutRequest{
		Settlement: domain.SettlementDebt,
		DebtorName: "Mira",
	}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	debts, err := svc.ListDebts(ctx, false)
	if err != nil || len(debts) != 1 {
		t.Fatalf("expected one debt, got %v %v", debts, err)
	}

	_, err = svc.PayDebt(ctx, debts[0].ID, domain.DebtPaymentRequest{Amount: dec("10.01")})
	if !errors.Is(err, store.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment for overpayment, got %v", err)
	}

	debt, err := svc.GetDebt(ctx, debts[0].ID)
	if err != nil {
		t.Fatalf("get debt failed: %v", err)
	}
	if debt.Paid || !debt.Amount.Equal(dec("10")) || len(debt.Payments) != 0 {
		t.Fatalf("rejected payment must not change the debt, got %+v", debt)
	}
}

func TestConcurrentPaymentsSettleOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-race", seed.ID, 3)
	if _, err := svc.Checkout(ctx, "sess-race", domain.CheckoutRequest{
		Settlement: domain.SettlementDebt,
		DebtorName: "Ilir",
	}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	debts, err := svc.ListDebts(ctx, false)
	if err != nil || len(debts) != 1 {
		t.Fatalf("expected one debt, got %v %v", debts, err)
	}
	debtID := debts[0].ID
	full := debts[0].Amount

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PayDebt(ctx, debtID, domain.DebtPaymentRequest{Amount: full})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, store.ErrAlreadySettled) {
			t.Fatalf("unexpected payment error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one full payment to land, got %d (errs=%v)", succeeded, errs)
	}

	debt, err := svc.GetDebt(ctx, debtID)
	if err != nil {
		t.Fatalf("get debt failed: %v", err)
	}
	if !debt.Paid || !debt.Amount.IsZero() || len(debt.Payments) != 1 {
		t.Fatalf("expected one settled payment on record, got paid=%v amount=%s payments=%d",
			debt.Paid, debt.Amount, len(debt.Payments))
	}
}

func TestPayDebtRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService()

	_, err := svc.PayDebt(context.Background(), "debt-x", domain.DebtPaymentRequest{Amount: dec("0")})
	if !errors.Is(err, store.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestOverdueDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if days := OverdueDays(domain.Debt{DueDate: &due}, now); days != 9 {
		t.Fatalf("expected 9 days overdue, got %d", days)
	}
	if days := OverdueDays(domain.Debt{DueDate: &due, Paid: true}, now); days != 0 {
		t.Fatalf("paid debt must not be overdue, got %d", days)
	}
	if days := OverdueDays(domain.Debt{}, now); days != 0 {
		t.Fatalf("debt without due date must not be overdue, got %d", days)
	}
	future := now.Add(48 * time.Hour)
	if days := OverdueDays(domain.Debt{DueDate: &future}, now); days != 0 {
		t.Fatalf("future due date must not be overdue, got %d", days)
	}
}

func TestIsOverdueWithinFirstDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	if !IsOverdue(domain.Debt{DueDate: &due}, now) {
		t.Fatalf("debt an hour past due must be overdue")
	}
	if days := OverdueDays(domain.Debt{DueDate: &due}, now); days != 0 {
		t.Fatalf("expected 0 whole days elapsed, got %d", days)
	}
	if IsOverdue(domain.Debt{DueDate: &due, Paid: true}, now) {
		t.Fatalf("paid debt must not be overdue")
	}
	if IsOverdue(domain.Debt{}, now) {
		t.Fatalf("debt without due date must not be overdue")
	}
	future := now.Add(time.Hour)
	if IsOverdue(domain.Debt{DueDate: &future}, now) {
		t.Fatalf("future due date must not be overdue")
	}
}

func TestLowStockUsesStrictThreshold(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	stocks := map[string]int{"A": 3, "B": 5, "C": 10, "D": 0}
	for name, stock := range stocks {
		_, err := svc.RegisterProduct(ctx, domain.ProductCreateRequest{
			Name:          name,
			Price:         dec("1"),
			PurchasePrice: dec("1"),
			Stock:         stock,
		})
		if err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	low, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("low stock failed: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("expected 2 low stock products, got %d", len(low))
	}
	for _, product := range low {
		if product.Stock >= 5 {
			t.Fatalf("product %s with stock %d should not be low", product.Name, product.Stock)
		}
	}
}

func TestPeriodSummary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := registerSeed(t, svc)

	_, err := svc.RecordSupply(ctx, domain.SupplyCreateRequest{
		Supplier:      "AgroSupply",
		ItemName:      "Maize Seed",
		PurchasePrice: dec("7"),
		Price:         dec("10"),
		Quantity:      10,
	})
	if err != nil {
		t.Fatalf("record supply failed: %v", err)
	}

	fillCart(t, svc, "sess-sum", seed.ID, 4)
	if _, err := svc.Checkout(ctx, "sess-sum", domain.CheckoutRequest{Settlement: domain.SettlementCash}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	now := time.Now().UTC()
	summary, err := svc.PeriodSummary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("period summary failed: %v", err)
	}
	if summary.SaleCount != 1 || summary.SupplyCount != 1 {
		t.Fatalf("expected 1 sale and 1 supply, got %d/%d", summary.SaleCount, summary.SupplyCount)
	}
	if !summary.Revenue.Equal(dec("40")) {
		t.Fatalf("expected revenue 40, got %s", summary.Revenue)
	}
	if !summary.MaterialCost.Equal(dec("70")) {
		t.Fatalf("expected material cost 70, got %s", summary.MaterialCost)
	}
	// 4 units at price 10 against current purchase price 7
	if !summary.ProfitEstimate.Equal(dec("12")) {
		t.Fatalf("expected profit estimate 12, got %s", summary.ProfitEstimate)
	}
}

func TestPeriodSummaryUsesRecordedCostWhenPresent(t *testing.T) {
	svc := newTestServiceWith(stubCompleter{reply: "ok"}, true)
	ctx := context.Background()
	seed := registerSeed(t, svc)

	fillCart(t, svc, "sess-cogs", seed.ID, 4)
	sale, err := svc.Checkout(ctx, "sess-cogs", domain.CheckoutRequest{Settlement: domain.SettlementCash})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if sale.CostOfGoods == nil || !sale.CostOfGoods.Equal(dec("24")) {
		t.Fatalf("expected recorded cost 24, got %v", sale.CostOfGoods)
	}

	now := time.Now().UTC()
	summary, err := svc.PeriodSummary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("period summary failed: %v", err)
	}
	if !summary.ProfitEstimate.Equal(dec("16")) {
		t.Fatalf("expected profit 16 from recorded cost, got %s", summary.ProfitEstimate)
	}
}

func TestRecordedZeroCostSkipsPurchasePriceFallback(t *testing.T) {
	svc := newTestServiceWith(stubCompleter{reply: "ok"}, true)
	ctx := context.Background()

	product, err := svc.RegisterProduct(ctx, domain.ProductCreateRequest{
		Name:          "Promo Sample",
		Price:         dec("10"),
		PurchasePrice: dec("0"),
		Stock:         10,
	})
	if err != nil {
		t.Fatalf("register product failed: %v", err)
	}

	fillCart(t, svc, "sess-zero", product.ID, 2)
	sale, err := svc.Checkout(ctx, "sess-zero", domain.CheckoutRequest{Settlement: domain.SettlementCash})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if sale.CostOfGoods == nil || !sale.CostOfGoods.IsZero() {
		t.Fatalf("expected a recorded zero cost, got %v", sale.CostOfGoods)
	}

	// a later intake at a higher purchase price must not rewrite past profit
	if _, err := svc.RecordSupply(ctx, domain.SupplyCreateRequest{
		Supplier:      "AgroSupply",
		ItemName:      "Promo Sample",
		PurchasePrice: dec("6"),
		Price:         dec("10"),
		Quantity:      5,
	}); err != nil {
		t.Fatalf("record supply failed: %v", err)
	}

	now := time.Now().UTC()
	summary, err := svc.PeriodSummary(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("period summary failed: %v", err)
	}
	if !summary.ProfitEstimate.Equal(dec("20")) {
		t.Fatalf("expected profit 20 from recorded zero cost, got %s", summary.ProfitEstimate)
	}
}

func TestTopProductsRanksByQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		product, err := svc.RegisterProduct(ctx, domain.ProductCreateRequest{
			Name:          name,
			Price:         dec("2"),
			PurchasePrice: dec("1"),
			Stock:         50,
		})
		if err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
		ids = append(ids, product.ID)
	}

	buy := func(session string, productID string, qty int) {
		fillCart(t, svc, session, productID, qty)
		if _, err := svc.Checkout(ctx, session, domain.CheckoutRequest{Settlement: domain.SettlementCash}); err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
	}
	buy("s1", ids[0], 2)
	buy("s2", ids[1], 7)
	buy("s3", ids[2], 2)
	buy("s4", ids[1], 1)

	now := time.Now().UTC()
	top, err := svc.TopProducts(ctx, now.Add(-time.Hour), now.Add(time.Hour), 2)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Name != "B" || top[0].Quantity != 8 {
		t.Fatalf("expected B with 8 units first, got %+v", top[0])
	}
	// A and C tie at 2; A appeared first in the sales stream
	if top[1].Name != "A" {
		t.Fatalf("expected tie broken by first appearance, got %+v", top[1])
	}
}

func TestChatDegradesWhenCompleterFails(t *testing.T) {
	svc := newTestServiceWith(stubCompleter{err: assistant.ErrService}, false)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "how are sales?"})
	if !errors.Is(err, assistant.ErrService) {
		t.Fatalf("expected ErrService, got %v", err)
	}

	svc = newTestServiceWith(stubCompleter{reply: "sales look healthy"}, false)
	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "how are sales?"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if resp.Reply != "sales look healthy" {
		t.Fatalf("unexpected reply: %s", resp.Reply)
	}
}

func TestDuplicateProductNameRejected(t *testing.T) {
	svc := newTestService()
	registerSeed(t, svc)

	_, err := svc.RegisterProduct(context.Background(), domain.ProductCreateRequest{
		Name:          "maize seed",
		Price:         dec("10"),
		PurchasePrice: dec("6"),
		Stock:         1,
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate name, got %v", err)
	}
}
