package main

import "github.com/mcoot/pinochle-score/internal/cli"

func main() {
	cli.Execute()
}
