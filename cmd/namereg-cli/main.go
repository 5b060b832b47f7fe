package main

import "github.com/regnull/namereg/cmd/namereg-cli/cmd"

func main() {
	cmd.Execute()
}
