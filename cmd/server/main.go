package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Config  string           `help:"Path to the configuration file." default:"configs/config.yaml" short:"c" type:"path"`
		Version kong.VersionFlag `help:"Print the version and exit."`
		Serve   serveCmd         `cmd:"" default:"1" help:"Start the API server."`
		Migrate migrateCmd       `cmd:"" help:"Create or update the database schema."`
		Seed    seedCmd          `cmd:"" help:"Create the administrator company and user."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("bilemo"),
		kong.Description("Multi-tenant catalog API for companies, users and products."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&globals{ConfigPath: cli.Config, Version: version})
	cmd.FatalIfErrorf(err)
}
