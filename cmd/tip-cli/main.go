package main

import "tip-core/cmd/tip-cli/cmd"

func main() {
	cmd.Execute()
}
