package main

import (
	"github.com/ludorg/gamenight/internal/cli"
)

func main() {
	cli.Execute()
}
