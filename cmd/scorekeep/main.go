package main

import "github.com/tallyhq/scorekeep/internal/cli"

func main() {
	cli.Execute()
}
