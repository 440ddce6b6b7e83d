package main

import "github.com/procureflow/procureflow/cmd/ledgerctl/cli"

func main() {
	cli.Execute()
}
