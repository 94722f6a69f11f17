package main

import (
	"os"

	"github.com/scheerer/mystic-light-controller/cmd"
	"github.com/scheerer/mystic-light-controller/internal/logging"
)

var logger = logging.New("main")

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
