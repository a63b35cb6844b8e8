package main

import (
	"github.com/8cylinder/toolbox/cmd"
	"github.com/8cylinder/toolbox/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
