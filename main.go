// main holds the entry logic for the fleetdoctor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/civicscan/fleetdoctor/cmd"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/iostore"
)

func main() {
	err := cmd.Execute()

	if closeErr := iostore.CloseStores(); closeErr != nil {
		contract.LogWarn("Error closing assessment store", closeErr)
	}
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Error stopping profiling", profErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
