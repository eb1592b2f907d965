package main

import (
	"github.com/PolarWolf314/rimu/cmd"
)

func main() {
	cmd.Execute()
}
