package main

import "github.com/uipilot/uipilot/cmd"

func main() {
	cmd.Execute()
}
