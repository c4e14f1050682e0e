package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"agropos/backend/internal/domain"
	"agropos/backend/internal/ledger"
	"agropos/backend/internal/store"
	"agropos/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price, purchase_price, stock, description, created_at, updated_at
		FROM products
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	index := make(map[string]int, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.PurchasePrice, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		p.Batches = make([]domain.Batch, 0, 4)
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	batchRows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, received_at, remaining, unit_cost
		FROM product_batches
		ORDER BY received_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer batchRows.Close()

	for batchRows.Next() {
		var b domain.Batch
		var productID string
		if err := batchRows.Scan(&b.ID, &productID, &b.ReceivedAt, &b.Remaining, &b.UnitCost); err != nil {
			return nil, err
		}
		b.ReceivedAt = b.ReceivedAt.UTC()
		if i, ok := index[productID]; ok {
			products[i].Batches = append(products[i].Batches, b)
		}
	}
	if err := batchRows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.findProduct(ctx, `WHERE id = $1`, id)
}

func (s *Store) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.findProduct(ctx, `WHERE lower(name) = lower($1)`, strings.TrimSpace(name))
}

func (s *Store) findProduct(ctx context.Context, where string, arg string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, price, purchase_price, stock, description, created_at, updated_at
		FROM products
	`+where, arg).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.PurchasePrice, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	batches, err := s.loadBatches(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Batches = batches
	return &p, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) loadBatches(ctx context.Context, q querier, productID string) ([]domain.Batch, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, received_at, remaining, unit_cost
		FROM product_batches
		WHERE product_id = $1
		ORDER BY received_at ASC, id ASC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]domain.Batch, 0, 4)
	for rows.Next() {
		var b domain.Batch
		if err := rows.Scan(&b.ID, &b.ReceivedAt, &b.Remaining, &b.UnitCost); err != nil {
			return nil, err
		}
		b.ReceivedAt = b.ReceivedAt.UTC()
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, store.ErrValidation
	}
	if product.Stock < 0 || product.Price.IsNegative() || product.PurchasePrice.IsNegative() {
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

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, purchase_price, stock, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.ID, product.Name, product.Category, product.Price, product.PurchasePrice, product.Stock, product.Description, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrValidation
		}
		return nil, err
	}

	if product.Stock > 0 && len(product.Batches) == 0 {
		product.Batches = ledger.Append(nil, xid.New("batch"), product.Stock, product.PurchasePrice, product.CreatedAt)
	}
	for _, b := range product.Batches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_batches (id, product_id, received_at, remaining, unit_cost)
			VALUES ($1,$2,$3,$4,$5)
		`, b.ID, product.ID, b.ReceivedAt, b.Remaining, b.UnitCost)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) ApplySupply(ctx context.Context, supply domain.Supply) (*domain.Product, error) {
	supply.ItemName = strings.TrimSpace(supply.ItemName)
	supply.Supplier = strings.TrimSpace(supply.Supplier)
	if supply.ItemName == "" || supply.Supplier == "" {
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

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var p domain.Product
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, category, price, purchase_price, stock, description, created_at
		FROM products
		WHERE lower(name) = lower($1)
		FOR UPDATE
	`, supply.ItemName).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.PurchasePrice, &p.Stock, &p.Description, &p.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		p = domain.Product{
			ID:            xid.New("prod"),
			Name:          supply.ItemName,
			Category:      supply.Category,
			Price:         supply.Price,
			PurchasePrice: supply.PurchasePrice,
			Stock:         supply.Quantity,
			CreatedAt:     supply.CreatedAt,
			UpdatedAt:     supply.CreatedAt,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (id, name, category, price, purchase_price, stock, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, p.ID, p.Name, p.Category, p.Price, p.PurchasePrice, p.Stock, p.Description, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		p.Stock += supply.Quantity
		p.Price = supply.Price
		p.PurchasePrice = supply.PurchasePrice
		if supply.Category != "" {
			p.Category = supply.Category
		}
		p.UpdatedAt = supply.CreatedAt
		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET category = $2, price = $3, purchase_price = $4, stock = $5, updated_at = $6
			WHERE id = $1
		`, p.ID, p.Category, p.Price, p.PurchasePrice, p.Stock, p.UpdatedAt)
		if err != nil {
			return nil, err
		}
	}

	batchID := xid.New("batch")
	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_batches (id, product_id, received_at, remaining, unit_cost)
		VALUES ($1,$2,$3,$4,$5)
	`, batchID, p.ID, supply.CreatedAt, supply.Quantity, supply.PurchasePrice)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO supplies (id, created_at, supplier, item_name, category, purchase_price, price, quantity)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, supply.ID, supply.CreatedAt, supply.Supplier, supply.ItemName, supply.Category, supply.PurchasePrice, supply.Price, supply.Quantity)
	if err != nil {
		return nil, err
	}

	batches, err := s.loadBatches(ctx, tx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Batches = batches

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := p
	return &updated, nil
}

func (s *Store) ListSupplies(ctx context.Context, from time.Time, to time.Time) ([]domain.Supply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, supplier, item_name, category, purchase_price, price, quantity
		FROM supplies
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplies := make([]domain.Supply, 0, 64)
	for rows.Next() {
		var supply domain.Supply
		if err := rows.Scan(&supply.ID, &supply.CreatedAt, &supply.Supplier, &supply.ItemName, &supply.Category, &supply.PurchasePrice, &supply.Price, &supply.Quantity); err != nil {
			return nil, err
		}
		supply.CreatedAt = supply.CreatedAt.UTC()
		supplies = append(supplies, supply)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return supplies, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale, debt *domain.Debt) (*domain.Sale, error) {
	if len(sale.Items) == 0 {
		return nil, store.ErrEmptyCart
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

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range sale.Items {
		if item.Quantity < 1 {
			return nil, store.ErrValidation
		}

		var stock int
		err := tx.QueryRowContext(ctx, `
			SELECT stock
			FROM products
			WHERE id = $1
			FOR UPDATE
		`, item.ProductID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}
		if stock < item.Quantity {
			return nil, store.ErrInsufficientStock
		}

		batches, err := s.loadBatches(ctx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		survivors, err := ledger.DepleteFIFO(batches, item.Quantity)
		if err != nil {
			return nil, err
		}

		remaining := make(map[string]int, len(survivors))
		for _, b := range survivors {
			remaining[b.ID] = b.Remaining
		}
		for _, b := range batches {
			after, kept := remaining[b.ID]
			if !kept {
				_, err = tx.ExecContext(ctx, `DELETE FROM product_batches WHERE id = $1`, b.ID)
			} else if after != b.Remaining {
				_, err = tx.ExecContext(ctx, `UPDATE product_batches SET remaining = $2 WHERE id = $1`, b.ID, after)
			}
			if err != nil {
				return nil, err
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = $3
			WHERE id = $1
		`, item.ProductID, item.Quantity, sale.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, created_at, total, settlement, debtor_name, cost_of_goods)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, sale.ID, sale.CreatedAt, sale.Total, sale.Settlement, sale.DebtorName, nullCost(sale.CostOfGoods))
	if err != nil {
		return nil, err
	}

	for i, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, seq, product_id, name, unit_price, quantity, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, sale.ID, i, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal)
		if err != nil {
			return nil, err
		}
	}

	if debt != nil {
		record := *debt
		if record.ID == "" {
			record.ID = xid.New("debt")
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = sale.CreatedAt
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO debts (id, debtor_name, amount, created_at, description, paid, agreement, due_date)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, record.ID, record.DebtorName, record.Amount, record.CreatedAt, record.Description, record.Paid, record.Agreement, nullDate(record.DueDate))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := sale
	return &created, nil
}

func (s *Store) ListSales(ctx context.Context, from time.Time, to time.Time) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, total, settlement, debtor_name, cost_of_goods
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 128)
	index := make(map[string]int, 128)
	for rows.Next() {
		var sale domain.Sale
		var cost decimal.NullDecimal
		if err := rows.Scan(&sale.ID, &sale.CreatedAt, &sale.Total, &sale.Settlement, &sale.DebtorName, &cost); err != nil {
			return nil, err
		}
		if cost.Valid {
			sale.CostOfGoods = &cost.Decimal
		}
		sale.CreatedAt = sale.CreatedAt.UTC()
		sale.Items = make([]domain.SaleItem, 0, 4)
		index[sale.ID] = len(sales)
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT si.sale_id, si.product_id, si.name, si.unit_price, si.quantity, si.line_total
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		ORDER BY si.sale_id, si.seq
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var saleID string
		var item domain.SaleItem
		if err := itemRows.Scan(&saleID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, err
		}
		if i, ok := index[saleID]; ok {
			sales[i].Items = append(sales[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}

func (s *Store) ListDebts(ctx context.Context, includePaid bool) ([]domain.Debt, error) {
	query := `
		SELECT id, debtor_name, amount, created_at, description, paid, agreement, due_date
		FROM debts
	`
	if !includePaid {
		query += ` WHERE paid = false`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := make([]domain.Debt, 0, 32)
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range debts {
		payments, err := s.loadPayments(ctx, s.db, debts[i].ID)
		if err != nil {
			return nil, err
		}
		debts[i].Payments = payments
	}

	return debts, nil
}

func (s *Store) GetDebtByID(ctx context.Context, id string) (*domain.Debt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, debtor_name, amount, created_at, description, paid, agreement, due_date
		FROM debts
		WHERE id = $1
	`, id)

	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	payments, err := s.loadPayments(ctx, s.db, debt.ID)
	if err != nil {
		return nil, err
	}
	debt.Payments = payments
	return &debt, nil
}

// ApplyDebtPayment locks the debt row for the whole read-modify-write so
// two concurrent payments serialize instead of overwriting each other.
func (s *Store) ApplyDebtPayment(ctx context.Context, id string, amount decimal.Decimal) (*domain.Debt, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, debtor_name, amount, created_at, description, paid, agreement, due_date
		FROM debts
		WHERE id = $1
		FOR UPDATE
	`, id)
	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	payments, err := s.loadPayments(ctx, tx, debt.ID)
	if err != nil {
		return nil, err
	}
	debt.Payments = payments

	payment, err := store.ApplyPayment(&debt, amount, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE debts
		SET amount = $2, description = $3, paid = $4
		WHERE id = $1
	`, debt.ID, debt.Amount, debt.Description, debt.Paid)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO debt_payments (id, debt_id, paid_at, amount, remaining)
		VALUES ($1,$2,$3,$4,$5)
	`, payment.ID, debt.ID, payment.PaidAt, payment.Amount, payment.Remaining)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &debt, nil
}

func (s *Store) loadPayments(ctx context.Context, q querier, debtID string) ([]domain.DebtPayment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, paid_at, amount, remaining
		FROM debt_payments
		WHERE debt_id = $1
		ORDER BY paid_at ASC, id ASC
	`, debtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.DebtPayment, 0, 4)
	for rows.Next() {
		var payment domain.DebtPayment
		if err := rows.Scan(&payment.ID, &payment.PaidAt, &payment.Amount, &payment.Remaining); err != nil {
			return nil, err
		}
		payment.PaidAt = payment.PaidAt.UTC()
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM products
		WHERE category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0, 8)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrValidation
	}
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrValidation
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrValidation
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(row rowScanner) (domain.Debt, error) {
	var debt domain.Debt
	var dueDate sql.NullTime
	err := row.Scan(&debt.ID, &debt.DebtorName, &debt.Amount, &debt.CreatedAt, &debt.Description, &debt.Paid, &debt.Agreement, &dueDate)
	if err != nil {
		return debt, err
	}
	debt.CreatedAt = debt.CreatedAt.UTC()
	if dueDate.Valid {
		due := nowDateUTC(dueDate.Time)
		debt.DueDate = &due
	}
	return debt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nowDateUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

func nullDate(val *time.Time) any {
	if val == nil {
		return nil
	}
	return nowDateUTC(*val)
}

func nullCost(val *decimal.Decimal) decimal.NullDecimal {
	if val == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *val, Valid: true}
}
