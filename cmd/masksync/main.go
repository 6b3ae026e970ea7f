package main

import (
	"os"

	_ "github.com/lib/pq"

	"masksync/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
