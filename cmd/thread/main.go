package main

import (
	"context"
	"os"

	"go-thread/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.NewRootCommand(cli.OpenFromConfig)))
}
