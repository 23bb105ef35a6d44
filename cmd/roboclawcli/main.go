package main

import (
	"github.com/robotalks/roboclaw.go/pkg/cli/sh"
	"github.com/robotalks/roboclaw.go/pkg/env"

	_ "github.com/robotalks/roboclaw.go/pkg/cli/cmds/device"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
