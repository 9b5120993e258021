package main

import "github.com/s22625/tkoview/internal/cli"

func main() {
	cli.Execute()
}
