package main

import (
	"os"

	"github.com/dshills/codewalk/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
