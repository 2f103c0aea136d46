package main

import "github.com/rustyeddy/phoenix/internal/cli"

func main() {
	cli.Execute()
}
