package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/unclebandit/orders-backend/internal/repository"
)

func StatsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	customers, err := repository.NewCustomerRepository(appCtx.DB).Count(ctx)
	if err != nil {
		return err
	}
	products, err := repository.NewProductRepository(appCtx.DB).Count(ctx)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "driver:    %s\n", appCtx.Config.DB.Driver)
	fmt.Fprintf(w, "customers: %d\n", customers)
	fmt.Fprintf(w, "products:  %d\n", products)
	return nil
}
