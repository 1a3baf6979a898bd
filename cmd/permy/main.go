package main

import (
	"os"

	"github.com/dev-mohitbeniwal/permy/cmd/permy/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
