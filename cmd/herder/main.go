package main

import (
	"github.com/cloudherder/cloudherder/pkg/cli"
)

func main() {
	cli.Execute()
}
