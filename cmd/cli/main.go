package main

import (
	"github.com/pm10meta/auditctl/pkg/cli"
)

func main() {
	cli.Execute()
}
