package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	View     viewCmd     `cmd:"" help:"Filter, sort, and print a table from a records file."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a table definition and source entry to a manifest."`
	Serve    serveCmd    `cmd:"" help:"Serve the table API (REST, WebSocket, metrics)."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("gridctl"),
		kong.Description("Sortable table tooling for go-datagrid manifests and services."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}
