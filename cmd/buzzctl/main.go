package main

import (
	"github.com/beatguessr/beatguessr-go/internal/cli"
)

func main() {
	cli.Execute()
}
