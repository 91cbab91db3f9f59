package main

import "swarmview/internal/cli"

func main() {
	cli.Execute()
}
