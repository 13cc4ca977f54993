package main

import (
	"context"
	"os"

	"DisasterPipeline/internal/cli"
)

func main() {
	ctx := context.Background()
	os.Exit(cli.Main(ctx, cli.RunApplication, os.Args[1:], os.Stdout, os.Stderr))
}
