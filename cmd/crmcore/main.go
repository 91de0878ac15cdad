package main

import "github.com/user/crmcore/internal/cli"

func main() {
	cli.Execute()
}
