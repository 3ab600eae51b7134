package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/orders-backend/internal/db"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Count(ctx context.Context) (int, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB db.Querier
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)

func NewCustomerRepository(q db.Querier) *CustomerRepository {
	return &CustomerRepository{DB: q}
}

// List fetches all customers in id order
func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	query := `
        SELECT id, name
        FROM customers
        ORDER BY id
    `
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := r.DB.Dialect().Rebind(`
        SELECT id, name
        FROM customers
        WHERE id = ?
    `)

	var c model.Customer
	if err := r.DB.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name); err != nil {
		if db.IsNotFound(err) {
			return nil, appErrors.NewNotFound(model.CustomerResource, id)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &c, nil
}

// Create inserts c and sets its generated ID
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	id, err := db.InsertID(ctx, r.DB, `INSERT INTO customers (name) VALUES (?)`, "id", c.Name)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	c.ID = id
	return nil
}

// Update persists the mutable fields of an existing customer
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := r.DB.Dialect().Rebind(`UPDATE customers SET name = ? WHERE id = ?`)
	res, err := r.DB.Exec(ctx, query, c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	if n == 0 {
		return appErrors.NewNotFound(model.CustomerResource, c.ID)
	}
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
