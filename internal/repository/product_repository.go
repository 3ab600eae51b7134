package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/orders-backend/internal/db"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/model"
)

type ProductRepositoryInterface interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Count(ctx context.Context) (int, error)
}

type ProductRepository struct {
	DB db.Querier
}

var _ ProductRepositoryInterface = (*ProductRepository)(nil)

func NewProductRepository(q db.Querier) *ProductRepository {
	return &ProductRepository{DB: q}
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := r.DB.Dialect().Rebind(`SELECT id, name FROM products WHERE id = ?`)

	var p model.Product
	if err := r.DB.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name); err != nil {
		if db.IsNotFound(err) {
			return nil, appErrors.NewNotFound(model.ProductResource, id)
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	id, err := db.InsertID(ctx, r.DB, `INSERT INTO products (name) VALUES (?)`, "id", p.Name)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := r.DB.Dialect().Rebind(`UPDATE products SET name = ? WHERE id = ?`)
	res, err := r.DB.Exec(ctx, query, p.Name, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if n == 0 {
		return appErrors.NewNotFound(model.ProductResource, p.ID)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
