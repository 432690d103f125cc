package main

import (
	"os"

	"github.com/okian/skillwheel/internal/rendercli"
)

func main() {
	if err := rendercli.Execute(); err != nil {
		os.Exit(1)
	}
}
