package main

import (
	"github.com/omriShneor/booking_assistant/cmd"
)

// version will be set at build time via -ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
