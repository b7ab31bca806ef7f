package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/kirjasto/ils/internal/config"
	"github.com/kirjasto/ils/internal/driver"

	// Register the available drivers.
	_ "github.com/kirjasto/ils/internal/adapters/alma"
	_ "github.com/kirjasto/ils/internal/adapters/aurora"
	_ "github.com/kirjasto/ils/internal/adapters/demo"
	_ "github.com/kirjasto/ils/internal/adapters/mikromarc"
)

// CLI represents the complete command structure for the ilsctl
// application.
type CLI struct {
	// Global flags
	Backend string `short:"b" help:"Backend section name from the config file" default:"demo"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Holdings  HoldingsCmd  `cmd:"" help:"Show a record's holdings and availability"`
	Login     LoginCmd     `cmd:"" help:"Verify patron credentials"`
	Fines     FinesCmd     `cmd:"" help:"List a patron's outstanding fees"`
	Loans     LoansCmd     `cmd:"" help:"List a patron's current loans"`
	Holds     HoldsCmd     `cmd:"" help:"List a patron's open holds"`
	Hold      HoldCmd      `cmd:"" help:"Place or cancel a hold"`
	Renew     RenewCmd     `cmd:"" help:"Renew loans"`
	Locations LocationsCmd `cmd:"" help:"List eligible pickup locations"`
}

// HoldCmd groups the hold mutation subcommands.
type HoldCmd struct {
	Place  HoldPlaceCmd  `cmd:"" help:"Place a hold on a record"`
	Cancel HoldCancelCmd `cmd:"" help:"Cancel holds by request id"`
}

var selectedBackend string

// Execute runs the Kong-based CLI.
func Execute() {
	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("ilsctl"),
		kong.Description("A tool to query and operate library backends through one driver contract."),
		kong.UsageOnError(),
	)

	initLogging(cli.Verbose)
	initConfig()
	selectedBackend = cli.Backend

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Demo backend works out of the box with no config file.
	viper.SetDefault("backends.demo.driver", "demo")
	viper.SetDefault("backends.demo.holds_enabled", true)

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("backends.alma.api_key", "ALMA_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/ilsctl")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
		slog.Debug("Config file not found, using defaults")
	}
}

// connect resolves the selected backend section and builds its driver.
func connect() (driver.Driver, *config.Backend, error) {
	cfg, err := config.Load(selectedBackend)
	if err != nil {
		return nil, nil, err
	}
	drv, err := driver.Connect(driver.Deps{Config: cfg})
	if err != nil {
		return nil, nil, err
	}
	return drv, cfg, nil
}

// login authenticates the patron for commands that need one.
func login(ctx context.Context, drv driver.Driver, username, password string) (*patronSession, error) {
	patron, err := drv.PatronLogin(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if patron == nil {
		return nil, errBadCredentials
	}
	return &patronSession{patron: patron}, nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
