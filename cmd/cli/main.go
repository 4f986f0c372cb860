// Command gophtrip is the terminal trip planner.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophtrip/internal/buildinfo"
	"github.com/dmitrijs2005/gophtrip/internal/client/cli"
	"github.com/dmitrijs2005/gophtrip/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	app, err := cli.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("gophtrip: %v", err)
	}
	app.Run(ctx)
}
