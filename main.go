package main

import (
	"github.com/davidallendj/ipmiq/cmd"
)

func main() {
	cmd.Execute()
}
