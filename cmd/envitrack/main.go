package main

import "envitrack/internal/cli"

func main() {
	cli.Execute()
}
