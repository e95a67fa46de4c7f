// command firestarr runs Monte Carlo wildland fire growth simulations
// from the command line.
package main

import (
	"log"
	"os"

	"github.com/cwfis/firestarr/internal/cli"
)

func main() {
	log.SetFlags(log.LstdFlags)
	cfg := cli.InitializeConfig()
	if err := cli.Execute(cfg); err != nil {
		os.Exit(1)
	}
}
