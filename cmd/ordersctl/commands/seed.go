package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/unclebandit/orders-backend/internal/db"
	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/repository"
)

// SeedFile is the layout of a seed file. Records use the same field names as
// the HTTP request bodies.
type SeedFile struct {
	Customers []map[string]json.RawMessage `json:"customers"`
	Products  []map[string]json.RawMessage `json:"products"`
}

type SeedResult struct {
	Customers int
	Products  int
}

func SeedAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	res, err := Seed(ctx, appCtx.DB, cmd.String("file"))
	if err != nil {
		return err
	}

	appCtx.Logger.Info("seed completed", "customers", res.Customers, "products", res.Products)
	fmt.Fprintf(cmd.Root().Writer, "seeded %d customers and %d products\n", res.Customers, res.Products)
	return nil
}

// Seed validates every record in path and inserts them in one transaction.
// Nothing is written if any record is invalid.
func Seed(ctx context.Context, store *db.DB, path string) (SeedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("read seed file: %w", err)
	}

	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return SeedResult{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	customers := make([]*model.Customer, 0, len(file.Customers))
	for i, body := range file.Customers {
		c, err := model.ImportCustomer(body)
		if err != nil {
			return SeedResult{}, fmt.Errorf("customers[%d]: %w", i, err)
		}
		customers = append(customers, c)
	}

	products := make([]*model.Product, 0, len(file.Products))
	for i, body := range file.Products {
		p, err := model.ImportProduct(body)
		if err != nil {
			return SeedResult{}, fmt.Errorf("products[%d]: %w", i, err)
		}
		products = append(products, p)
	}

	err = store.ExecTx(ctx, func(tx *db.Tx) error {
		customerRepo := repository.NewCustomerRepository(tx)
		for _, c := range customers {
			if err := customerRepo.Create(ctx, c); err != nil {
				return fmt.Errorf("insert customer %q: %w", c.Name, err)
			}
		}

		productRepo := repository.NewProductRepository(tx)
		for _, p := range products {
			if err := productRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("insert product %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return SeedResult{Customers: len(customers), Products: len(products)}, nil
}
