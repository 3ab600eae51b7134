package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func MigrateUpAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.DB.Migrate(ctx); err != nil {
		return err
	}
	return printVersion(ctx, cmd, appCtx)
}

func MigrateDownAction(ctx context.Context, cmd *cli.Command) error {
	steps := int(cmd.Int("steps"))
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", steps)
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.DB.MigrateDown(ctx, steps); err != nil {
		return err
	}
	return printVersion(ctx, cmd, appCtx)
}

func MigrateVersionAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	return printVersion(ctx, cmd, appCtx)
}

func printVersion(ctx context.Context, cmd *cli.Command, appCtx *AppContext) error {
	version, dirty, err := appCtx.DB.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(cmd.Root().Writer, "schema version: none")
		return nil
	}
	fmt.Fprintf(cmd.Root().Writer, "schema version: %d (dirty: %t)\n", version, dirty)
	return nil
}
