package main

import (
	_ "github.com/kendraSO/site/api/checks"
	_ "github.com/kendraSO/site/custom"
	_ "github.com/kendraSO/site/html"

	"github.com/kendraSO/site/cmd"
)

func main() {
	cmd.Execute()
}
