package main

import "github.com/OpenTraceLab/pcbdl/cmd/pcbdl/cmd"

func main() {
	cmd.Execute()
}
