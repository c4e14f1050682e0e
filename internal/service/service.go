package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"agropos/backend/internal/assistant"
	"agropos/backend/internal/cache"
	"agropos/backend/internal/domain"
	"agropos/backend/internal/ledger"
	"agropos/backend/internal/store"
	"agropos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo              store.Repository
	carts             cache.CartStore
	completer         assistant.Completer
	cartTTL           time.Duration
	lowStockThreshold int
	lotAccurateCOGS   bool
}

func New(repo store.Repository, carts cache.CartStore, completer assistant.Completer, cartTTL time.Duration, lowStockThreshold int, lotAccurateCOGS bool) *Service {
	if cartTTL <= 0 {
		cartTTL = 2 * time.Hour
	}
	if lowStockThreshold < 1 {
		lowStockThreshold = 5
	}
	if completer == nil {
		completer = assistant.Noop{}
	}

	return &Service{
		repo:              repo,
		carts:             carts,
		completer:         completer,
		cartTTL:           cartTTL,
		lowStockThreshold: lowStockThreshold,
		lotAccurateCOGS:   lotAccurateCOGS,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) FindProductByName(ctx context.Context, name string) (domain.Product, error) {
	product, err := s.repo.FindProductByName(ctx, name)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) RegisterProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(strings.ToLower(req.Category))

	if req.Name == "" {
		return domain.Product{}, store.ErrValidation
	}
	if req.Stock < 0 || req.Price.IsNegative() || req.PurchasePrice.IsNegative() {
		return domain.Product{}, store.ErrValidation
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:            xid.New("prod"),
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		Description:   strings.TrimSpace(req.Description),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Stock > 0 {
		product.Batches = ledger.Append(nil, xid.New("batch"), req.Stock, req.PurchasePrice, now)
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) RecordSupply(ctx context.Context, req domain.SupplyCreateRequest) (domain.Product, error) {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Supplier = strings.TrimSpace(req.Supplier)
	req.Category = strings.TrimSpace(strings.ToLower(req.Category))

	if req.ItemName == "" || req.Supplier == "" {
		return domain.Product{}, store.ErrValidation
	}
	if req.Quantity < 1 || req.PurchasePrice.IsNegative() || req.Price.IsNegative() {
		return domain.Product{}, store.ErrValidation
	}

	supply := domain.Supply{
		ID:            xid.New("supply"),
		CreatedAt:     time.Now().UTC(),
		Supplier:      req.Supplier,
		ItemName:      req.ItemName,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		Price:         req.Price,
		Quantity:      req.Quantity,
	}

	product, err := s.repo.ApplySupply(ctx, supply)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) ListSupplies(ctx context.Context, from time.Time, to time.Time) ([]domain.Supply, error) {
	return s.repo.ListSupplies(ctx, from, to)
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Cart{}, store.ErrValidation
	}

	cart, found, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !found {
		return domain.Cart{SessionID: sessionID, Items: []domain.CartItem{}}, nil
	}
	return *cart, nil
}

// AddToCart validates the quantity against current stock plus whatever the
// cart already holds for the product. Stock is not reserved; checkout
// re-validates before committing.
func (s *Service) AddToCart(ctx context.Context, sessionID string, req domain.AddToCartRequest) (domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" || req.ProductID == "" || req.Quantity < 1 {
		return domain.Cart{}, store.ErrValidation
	}

	product, err := s.repo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	inCart := 0
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID {
			inCart = item.Quantity
			break
		}
	}
	if product.Stock < inCart+req.Quantity {
		return domain.Cart{}, store.ErrInsufficientStock
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			cart.Items[i].UnitPrice = product.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  req.Quantity,
		})
	}
	cart.UpdatedAt = time.Now().UTC()

	if err := s.carts.Save(ctx, cart, s.cartTTL); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID string) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return domain.Cart{}, store.ErrNotFound
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now().UTC()

	if err := s.carts.Save(ctx, cart, s.cartTTL); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return store.ErrValidation
	}
	return s.carts.Delete(ctx, sessionID)
}

// Checkout converts the session cart into a sale. Stock is re-validated and
// depleted atomically by the repository; a debt settlement additionally
// records an open debt for the cart total. The cart survives any failure.
func (s *Service) Checkout(ctx context.Context, sessionID string, req domain.CheckoutRequest) (domain.Sale, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Sale{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Sale{}, store.ErrEmptyCart
	}

	if req.Settlement != domain.SettlementCash && req.Settlement != domain.SettlementDebt {
		return domain.Sale{}, store.ErrValidation
	}
	debtorName := strings.TrimSpace(req.DebtorName)
	if req.Settlement == domain.SettlementDebt && debtorName == "" {
		return domain.Sale{}, store.ErrMissingDebtor
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		ID:         xid.New("sale"),
		CreatedAt:  now,
		Items:      make([]domain.SaleItem, 0, len(cart.Items)),
		Settlement: req.Settlement,
	}
	total := decimal.Zero
	costOfGoods := decimal.Zero

	for _, item := range cart.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)

		if s.lotAccurateCOGS {
			product, err := s.repo.GetProductByID(ctx, item.ProductID)
			if err != nil {
				return domain.Sale{}, err
			}
			cost, err := ledger.CostOfUnits(product.Batches, item.Quantity)
			if err != nil {
				return domain.Sale{}, err
			}
			costOfGoods = costOfGoods.Add(cost)
		}
	}
	sale.Total = total
	if s.lotAccurateCOGS {
		sale.CostOfGoods = &costOfGoods
	}

	var debt *domain.Debt
	if req.Settlement == domain.SettlementDebt {
		sale.DebtorName = debtorName
		debt = &domain.Debt{
			ID:          xid.New("debt"),
			DebtorName:  debtorName,
			Amount:      total,
			CreatedAt:   now,
			Description: summarizeItems(sale.Items),
			Agreement:   req.Agreement,
		}
		if req.DueDate != "" {
			due, err := time.ParseInLocation("2006-01-02", req.DueDate, time.UTC)
			if err != nil {
				return domain.Sale{}, store.ErrValidation
			}
			debt.DueDate = &due
		}
	}

	created, err := s.repo.CreateSale(ctx, sale, debt)
	if err != nil {
		return domain.Sale{}, err
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("failed to clear cart after checkout")
	}

	return *created, nil
}

func (s *Service) ListSales(ctx context.Context, from time.Time, to time.Time) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx, from, to)
}

func (s *Service) ListDebts(ctx context.Context, includePaid bool) ([]domain.Debt, error) {
	return s.repo.ListDebts(ctx, includePaid)
}

func (s *Service) GetDebt(ctx context.Context, id string) (domain.Debt, error) {
	debt, err := s.repo.GetDebtByID(ctx, id)
	if err != nil {
		return domain.Debt{}, err
	}
	return *debt, nil
}

// PayDebt applies a partial or full payment. Payments above the outstanding
// amount are rejected; once the residual falls within the settle epsilon it
// is clamped to zero and the debt becomes terminally paid. The repository
// runs the whole read-modify-write under its lock so concurrent payments
// serialize.
func (s *Service) PayDebt(ctx context.Context, id string, req domain.DebtPaymentRequest) (domain.Debt, error) {
	if !req.Amount.IsPositive() {
		return domain.Debt{}, store.ErrInvalidPayment
	}

	updated, err := s.repo.ApplyDebtPayment(ctx, id, req.Amount)
	if err != nil {
		return domain.Debt{}, err
	}
	return *updated, nil
}

// IsOverdue reports whether an unpaid debt's due date has passed, even when
// less than a whole day has elapsed.
func IsOverdue(debt domain.Debt, now time.Time) bool {
	if debt.Paid || debt.DueDate == nil {
		return false
	}
	return now.After(*debt.DueDate)
}

// OverdueDays returns how many whole days past due an unpaid debt is. A debt
// can be overdue with zero whole days elapsed; use IsOverdue for the
// predicate.
func OverdueDays(debt domain.Debt, now time.Time) int {
	if !IsOverdue(debt, now) {
		return 0
	}
	return int(now.Sub(*debt.DueDate).Hours() / 24)
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]domain.Product, 0, 8)
	for _, product := range products {
		if product.Stock < s.lowStockThreshold {
			low = append(low, product)
		}
	}
	return low, nil
}

// PeriodSummary aggregates sales and intake over [from, to). Profit uses
// each sale's recorded cost of goods when present, otherwise the product's
// current purchase price stands in for every unit sold.
func (s *Service) PeriodSummary(ctx context.Context, from time.Time, to time.Time) (domain.PeriodSummary, error) {
	summary := domain.PeriodSummary{
		From:           from,
		To:             to,
		Revenue:        decimal.Zero,
		MaterialCost:   decimal.Zero,
		ProfitEstimate: decimal.Zero,
	}

	sales, err := s.repo.ListSales(ctx, from, to)
	if err != nil {
		return summary, err
	}
	supplies, err := s.repo.ListSupplies(ctx, from, to)
	if err != nil {
		return summary, err
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return summary, err
	}

	costByProduct := make(map[string]decimal.Decimal, len(products))
	for _, product := range products {
		costByProduct[product.ID] = product.PurchasePrice
	}

	for _, sale := range sales {
		summary.Revenue = summary.Revenue.Add(sale.Total)
		summary.SaleCount++

		if sale.CostOfGoods != nil {
			summary.ProfitEstimate = summary.ProfitEstimate.Add(sale.Total.Sub(*sale.CostOfGoods))
			continue
		}
		for _, item := range sale.Items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			margin := item.UnitPrice.Sub(costByProduct[item.ProductID]).Mul(qty)
			summary.ProfitEstimate = summary.ProfitEstimate.Add(margin)
		}
	}

	for _, supply := range supplies {
		spend := supply.PurchasePrice.Mul(decimal.NewFromInt(int64(supply.Quantity)))
		summary.MaterialCost = summary.MaterialCost.Add(spend)
		summary.SupplyCount++
	}

	return summary, nil
}

// DailySummary reports on one UTC calendar day. An empty date means today.
func (s *Service) DailySummary(ctx context.Context, date string) (domain.PeriodSummary, error) {
	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			return domain.PeriodSummary{}, store.ErrValidation
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.PeriodSummary(ctx, from, from.Add(24*time.Hour))
}

// TopProducts ranks products by units sold over the window. Ties keep the
// order in which products first appeared in the sales stream.
func (s *Service) TopProducts(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.TopProduct, error) {
	if limit < 1 {
		limit = 5
	}

	sales, err := s.repo.ListSales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, 16)
	ranked := make([]domain.TopProduct, 0, 16)
	for _, sale := range sales {
		for _, item := range sale.Items {
			if _, seen := totals[item.ProductID]; !seen {
				ranked = append(ranked, domain.TopProduct{ProductID: item.ProductID, Name: item.Name})
			}
			totals[item.ProductID] += item.Quantity
		}
	}
	for i := range ranked {
		ranked[i].Quantity = totals[ranked[i].ProductID]
	}

	slices.SortStableFunc(ranked, func(a, b domain.TopProduct) int {
		return b.Quantity - a.Quantity
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Chat answers a question about the shop through the configured completion
// service. Store data only feeds the prompt; a failing completion changes
// nothing and surfaces as an error.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.ChatResponse{}, store.ErrValidation
	}

	sc := assistant.StoreContext{}
	if products, err := s.repo.ListProducts(ctx); err == nil {
		sc.ProductCount = len(products)
		for _, product := range products {
			if product.Stock < s.lowStockThreshold {
				sc.LowStock = append(sc.LowStock, product.Name)
			}
		}
	} else {
		logrus.WithError(err).Warn("assistant: product context unavailable")
	}
	if sales, err := s.repo.ListSales(ctx, time.Time{}, time.Now().UTC().Add(time.Second)); err == nil {
		sc.SaleCount = len(sales)
	} else {
		logrus.WithError(err).Warn("assistant: sales context unavailable")
	}

	reply, err := s.completer.Complete(ctx, assistant.BuildPrompt(sc, req.History, message))
	if err != nil {
		return domain.ChatResponse{}, err
	}
	return domain.ChatResponse{Reply: reply}, nil
}

func summarizeItems(items []domain.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}
