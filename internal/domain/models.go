package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is a purchase lot owned by exactly one product. Lots are consumed
// oldest-first during checkout and removed once fully depleted; a batch with
// Remaining == 0 never survives in a product's ledger.
type Batch struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"received_at"`
	Remaining  int             `json:"remaining"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// Product aggregates current stock and prices over an ordered batch ledger.
// Stock must always equal the sum of Remaining across Batches.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	Description   string          `json:"description,omitempty"`
	Batches       []Batch         `json:"batches"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Stock         int             `json:"stock"`
	Description   string          `json:"description"`
}

// Supply is an immutable intake event. One supply yields exactly one new
// batch and one product upsert.
type Supply struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Supplier      string          `json:"supplier"`
	ItemName      string          `json:"item_name"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
}

type SupplyCreateRequest struct {
	Supplier      string          `json:"supplier" validate:"required"`
	ItemName      string          `json:"item_name" validate:"required"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
}

const (
	SettlementCash = "cash"
	SettlementDebt = "debt"
)

type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Sale is immutable once created. CostOfGoods is nil unless lot-accurate
// costing was enabled at checkout; profit reporting falls back to the
// product's current purchase price only when no cost was recorded, so a
// recorded cost of zero still counts.
type Sale struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []SaleItem       `json:"items"`
	Total       decimal.Decimal  `json:"total"`
	Settlement  string           `json:"settlement"`
	DebtorName  string           `json:"debtor_name,omitempty"`
	CostOfGoods *decimal.Decimal `json:"cost_of_goods,omitempty"`
}

// CartItem is a transient line in a session cart; quantities are validated
// against stock when added but stock is not reserved.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type CheckoutRequest struct {
	Settlement string `json:"settlement" validate:"required,oneof=cash debt"`
	DebtorName string `json:"debtor_name"`
	Agreement  bool   `json:"agreement"`
	DueDate    string `json:"due_date"` // YYYY-MM-DD, debt settlement only
}

// DebtPayment is one entry in a debt's append-only payment history.
type DebtPayment struct {
	ID        string          `json:"id"`
	PaidAt    time.Time       `json:"paid_at"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Debt tracks an outstanding balance. Amount never increases; once it drops
// to the settle epsilon it is clamped to zero and Paid becomes terminal.
type Debt struct {
	ID          string          `json:"id"`
	DebtorName  string          `json:"debtor_name"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Description string          `json:"description"`
	Paid        bool            `json:"paid"`
	Agreement   bool            `json:"agreement"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Payments    []DebtPayment   `json:"payments"`
}

type DebtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type PeriodSummary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	// Revenue and ProfitEstimate are sale-based; MaterialCost is intake
	// spend over the same window. The three figures are deliberately not
	// reconciled with each other.
	Revenue        decimal.Decimal `json:"revenue"`
	MaterialCost   decimal.Decimal `json:"material_cost"`
	ProfitEstimate decimal.Decimal `json:"profit_estimate"`
	SaleCount      int             `json:"sale_count"`
	SupplyCount    int             `json:"supply_count"`
}

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type ChatMessage struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}
