package memory

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"agropos/backend/internal/domain"
	"agropos/backend/internal/ledger"
	"agropos/backend/internal/store"
	"agropos/backend/internal/xid"
)

type Store struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	productID []string // insertion order, keeps FindProductByName deterministic
	supplies  []domain.Supply
	sales     []domain.Sale
	debtsByID map[string]domain.Debt
	debtOrder []string
	users     map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials come from SEED_OWNER_PASSWORD and SEED_STAFF_PASSWORD; unset
// variables fall back to dev defaults with a warning. Production deployments
// use PostgreSQL (DATABASE_URL) and never hit this path.
func seedUsers() map[string]domain.UserAccount {
	ownerPwd := envOr("SEED_OWNER_PASSWORD", "owner123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_OWNER_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		logrus.Warn("memory-store: using default dev credentials; set SEED_OWNER_PASSWORD and SEED_STAFF_PASSWORD to override")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"owner", ownerPwd, "owner"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logrus.Fatalf("memory-store: failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func New() *Store {
	return &Store{
		products:  make(map[string]domain.Product),
		supplies:  make([]domain.Supply, 0, 64),
		sales:     make([]domain.Sale, 0, 128),
		debtsByID: make(map[string]domain.Debt),
		users:     seedUsers(),
	}
}

func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	seed := []struct {
		name     string
		category string
		price    string
		cost     string
		stock    int
	}{
		{"NPK Fertilizer 25kg", "fertilizer", "32.50", "24.00", 40},
		{"Urea 50kg", "fertilizer", "41.00", "33.50", 25},
		{"Maize Seed 10kg", "seed", "18.00", "12.50", 60},
		{"Wheat Seed 25kg", "seed", "27.00", "20.00", 30},
		{"Herbicide 1L", "pesticide", "9.50", "6.20", 80},
		{"Fungicide 500ml", "pesticide", "12.00", "8.40", 15},
		{"Chicken Feed 20kg", "feed", "14.50", "11.00", 50},
		{"Garden Hose 25m", "equipment", "22.00", "15.00", 12},
	}

	for i, item := range seed {
		price := decimal.RequireFromString(item.price)
		cost := decimal.RequireFromString(item.cost)
		id := xid.New("prod")
		received := now.Add(-time.Duration(len(seed)-i) * 24 * time.Hour)
		product := domain.Product{
			ID:            id,
			Name:          item.name,
			Category:      item.category,
			Price:         price,
			PurchasePrice: cost,
			Stock:         item.stock,
			Batches:       ledger.Append(nil, xid.New("batch"), item.stock, cost, received),
			CreatedAt:     received,
			UpdatedAt:     received,
		}
		s.products[id] = product
		s.productID = append(s.productID, id)
	}

	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, id := range s.productID {
		products = append(products, cloneProduct(s.products[id]))
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(a.Category, b.Category)
	})

	return products, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneProduct(product)
	return &dup, nil
}

func (s *Store) FindProductByName(_ context.Context, name string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.findByNameLocked(name)
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneProduct(product)
	return &dup, nil
}

// findByNameLocked returns the first product whose name matches under
// case-insensitive comparison, in insertion order.
func (s *Store) findByNameLocked(name string) (domain.Product, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	for _, id := range s.productID {
		if strings.ToLower(s.products[id].Name) == target {
			return s.products[id], true
		}
	}
	return domain.Product{}, false
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, store.ErrValidation
	}
	if product.Stock < 0 || product.Price.IsNegative() || product.PurchasePrice.IsNegative() {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.findByNameLocked(product.Name); exists {
		return nil, store.ErrValidation
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	s.products[product.ID] = cloneProduct(product)
	s.productID = append(s.productID, product.ID)
	created := cloneProduct(product)
	return &created, nil
}

func (s *Store) ApplySupply(_ context.Context, supply domain.Supply) (*domain.Product, error) {
	if strings.TrimSpace(supply.ItemName) == "" || strings.TrimSpace(supply.Supplier) == "" {
		return nil, store.ErrValidation
	}
	if supply.Quantity < 1 || supply.PurchasePrice.IsNegative() || supply.Price.IsNegative() {
		return nil, store.ErrValidation
	}
	if supply.ID == "" {
		supply.ID = xid.New("supply")
	}
	if supply.CreatedAt.IsZero() {
		supply.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.findByNameLocked(supply.ItemName)
	if exists {
		product.Stock += supply.Quantity
		product.Price = supply.Price
		product.PurchasePrice = supply.PurchasePrice
		if supply.Category != "" {
			product.Category = supply.Category
		}
		product.Batches = ledger.Append(product.Batches, xid.New("batch"), supply.Quantity, supply.PurchasePrice, supply.CreatedAt)
		product.UpdatedAt = supply.CreatedAt
	} else {
		product = domain.Product{
			ID:            xid.New("prod"),
			Name:          strings.TrimSpace(supply.ItemName),
			Category:      supply.Category,
			Price:         supply.Price,
			PurchasePrice: supply.PurchasePrice,
			Stock:         supply.Quantity,
			Batches:       ledger.Append(nil, xid.New("batch"), supply.Quantity, supply.PurchasePrice, supply.CreatedAt),
			CreatedAt:     supply.CreatedAt,
			UpdatedAt:     supply.CreatedAt,
		}
		s.productID = append(s.productID, product.ID)
	}

	s.products[product.ID] = cloneProduct(product)
	s.supplies = append(s.supplies, supply)

	updated := cloneProduct(product)
	return &updated, nil
}

func (s *Store) ListSupplies(_ context.Context, from time.Time, to time.Time) ([]domain.Supply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Supply, 0, len(s.supplies))
	for _, supply := range s.supplies {
		if !inWindow(supply.CreatedAt, from, to) {
			continue
		}
		result = append(result, supply)
	}
	return result, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale, debt *domain.Debt) (*domain.Sale, error) {
	if len(sale.Items) == 0 {
		return nil, store.ErrEmptyCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage every product mutation before touching anything, so an
	// insufficient line leaves the whole ledger unchanged.
	staged := make(map[string]domain.Product, len(sale.Items))
	for _, item := range sale.Items {
		if item.Quantity < 1 {
			return nil, store.ErrValidation
		}
		product, exists := s.products[item.ProductID]
		if !exists {
			return nil, store.ErrNotFound
		}
		if prev, ok := staged[item.ProductID]; ok {
			product = prev
		} else {
			product = cloneProduct(product)
		}
		if product.Stock < item.Quantity {
			return nil, store.ErrInsufficientStock
		}
		remaining, err := ledger.DepleteFIFO(product.Batches, item.Quantity)
		if err != nil {
			return nil, err
		}
		product.Batches = remaining
		product.Stock -= item.Quantity
		staged[item.ProductID] = product
	}

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	if sale.Settlement == "" {
		sale.Settlement = domain.SettlementCash
	}

	now := sale.CreatedAt
	for id, product := range staged {
		product.UpdatedAt = now
		s.products[id] = product
	}
	s.sales = append(s.sales, cloneSale(sale))

	if debt != nil {
		record := cloneDebt(*debt)
		if record.ID == "" {
			record.ID = xid.New("debt")
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		s.debtsByID[record.ID] = record
		s.debtOrder = append(s.debtOrder, record.ID)
	}

	created := cloneSale(sale)
	return &created, nil
}

func (s *Store) ListSales(_ context.Context, from time.Time, to time.Time) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		if !inWindow(sale.CreatedAt, from, to) {
			continue
		}
		result = append(result, cloneSale(sale))
	}
	return result, nil
}

func (s *Store) ListDebts(_ context.Context, includePaid bool) ([]domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Debt, 0, len(s.debtOrder))
	for _, id := range s.debtOrder {
		debt := s.debtsByID[id]
		if debt.Paid && !includePaid {
			continue
		}
		result = append(result, cloneDebt(debt))
	}
	return result, nil
}

func (s *Store) GetDebtByID(_ context.Context, id string) (*domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, exists := s.debtsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneDebt(debt)
	return &dup, nil
}

func (s *Store) ApplyDebtPayment(_ context.Context, id string, amount decimal.Decimal) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	debt, exists := s.debtsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	updated := cloneDebt(debt)
	if _, err := store.ApplyPayment(&updated, amount, time.Now().UTC()); err != nil {
		return nil, err
	}
	s.debtsByID[id] = cloneDebt(updated)
	return &updated, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, 8)
	categories := make([]string, 0, 8)
	for _, id := range s.productID {
		category := s.products[id].Category
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	slices.Sort(categories)
	return categories, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrValidation
	}
	if _, exists := s.users[username]; exists {
		return store.ErrValidation
	}
	user.Username = username
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.users[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrValidation
	}
	user, exists := s.users[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.users[username] = user
	return nil
}

// inWindow reports whether t falls in [from, to).
func inWindow(t time.Time, from time.Time, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func cloneProduct(src domain.Product) domain.Product {
	dup := src
	batches := make([]domain.Batch, len(src.Batches))
	copy(batches, src.Batches)
	dup.Batches = batches
	return dup
}

func cloneSale(src domain.Sale) domain.Sale {
	dup := src
	items := make([]domain.SaleItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	if src.CostOfGoods != nil {
		cost := *src.CostOfGoods
		dup.CostOfGoods = &cost
	}
	return dup
}

func cloneDebt(src domain.Debt) domain.Debt {
	dup := src
	payments := make([]domain.DebtPayment, len(src.Payments))
	copy(payments, src.Payments)
	dup.Payments = payments
	if src.DueDate != nil {
		due := src.DueDate.UTC()
		dup.DueDate = &due
	}
	return dup
}
