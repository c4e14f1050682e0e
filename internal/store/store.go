package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"agropos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingDebtor     = errors.New("debtor name required")
	ErrInvalidPayment    = errors.New("invalid payment amount")
	ErrAlreadySettled    = errors.New("debt already settled")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	FindProductByName(ctx context.Context, name string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	// ApplySupply records the intake event and upserts the named product:
	// stock increased, prices overwritten, one new batch appended. The
	// supply record and the product mutation commit together.
	ApplySupply(ctx context.Context, supply domain.Supply) (*domain.Product, error)
	ListSupplies(ctx context.Context, from time.Time, to time.Time) ([]domain.Supply, error)

	// CreateSale persists the sale, depletes each product's batch ledger
	// oldest-first, decrements stock counters, and appends the optional
	// debt record, all as one atomic unit. ErrInsufficientStock leaves
	// every product untouched.
	CreateSale(ctx context.Context, sale domain.Sale, debt *domain.Debt) (*domain.Sale, error)
	ListSales(ctx context.Context, from time.Time, to time.Time) ([]domain.Sale, error)

	ListDebts(ctx context.Context, includePaid bool) ([]domain.Debt, error)
	GetDebtByID(ctx context.Context, id string) (*domain.Debt, error)

	// ApplyDebtPayment runs the balance read-modify-write as one critical
	// section so concurrent payments cannot both settle the same debt.
	ApplyDebtPayment(ctx context.Context, id string, amount decimal.Decimal) (*domain.Debt, error)

	ListCategories(ctx context.Context) ([]string, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
