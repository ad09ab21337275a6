package main

import "github.com/nfrund/starbeam/cmd/starbeam-cli/cmd"

func main() {
	cmd.Execute()
}
