package main

import "github.com/andrescamacho/gw2-planner/internal/adapters/cli"

func main() {
	cli.Execute()
}
