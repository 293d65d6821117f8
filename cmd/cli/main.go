// cmd/cli/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	app "cryptoex/internal"
	"cryptoex/internal/util"
)

const usage = `Usage: cli <command> [flags]

Commands:
  init-db                 create the schema and seed the default currencies
  add-currency --name X   list a new currency at a random initial rate
  drift-once              apply exactly one rate drift sweep
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		util.GetLogger().Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, args := args[0], args[1:]

	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	name := fs.String("name", "", "currency name (add-currency)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch command {
	case "init-db", "add-currency", "drift-once":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	if command == "add-currency" && *name == "" {
		return fmt.Errorf("%w: add-currency requires --name", errUsage)
	}

	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		return err
	}
	defer func() { _ = application.Shutdown(context.Background()) }()

	switch command {
	case "init-db":
		added, err := application.ExchangeService.SeedCurrencies(ctx, application.Config.Exchange.DefaultCurrencies)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "schema ready, %d currencies added\n", added)
	case "add-currency":
		currency, err := application.ExchangeService.AddCurrency(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s listed at %s\n", currency.Name, currency.ExchangeRate)
	case "drift-once":
		currencies, err := application.RateDrifter.Tick(ctx)
		if err != nil {
			return err
		}
		for _, c := range currencies {
			fmt.Fprintf(out, "%s\t%s\n", c.Name, c.ExchangeRate)
		}
	}
	return nil
}
