package main

import (
	"os"

	"github.com/jonesrussell/north-cloud/review-responder/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	return cmd.Execute()
}
