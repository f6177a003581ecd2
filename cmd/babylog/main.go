package main

import (
	"fmt"
	"os"

	"baby-tracker/internal/cli"
)

// @title babylog API
// @version 1.0
// @description Registro de tomas, pañales y sueño del bebé sobre un CSV.
// @BasePath /
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
