package main

import (
	cmd "github.com/inference-gateway/gridpilot/cmd"
)

func main() {
	cmd.Execute()
}
