package main

import "tasklist/pkg/cli"

func main() {
	cli.Execute()
}
