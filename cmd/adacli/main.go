package main

import (
	"github.com/robotalks/adalight.go/pkg/cli/sh"

	_ "github.com/robotalks/adalight.go/pkg/cli/cmds/device"
	_ "github.com/robotalks/adalight.go/pkg/cli/cmds/frame"
)

//go-build: CGO_ENABLED=0

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
