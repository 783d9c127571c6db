package main

import (
	"github.com/rowbridge/rowbridge/cmd/rowbridge/cmd"
)

func main() {
	cmd.Execute()
}
