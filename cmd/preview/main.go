// Command preview opens the interactive realization viewer. Build with the
// ebiten tag for the GUI; the headless build prints a hint and exits.
package main

import (
	"flag"
	"fmt"
	"os"

	"fluvsynth/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := app.Run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/preview` for the GUI.")
		os.Exit(2)
	}
}
