package iostore

import (
	"fmt"

	"github.com/civicscan/fleetdoctor/schema"
)

// PrintStoreStatus prints assessment store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Location: %s\n", status.Location)
	fmt.Printf("Analysis Runs: %d\n", status.Runs)
	fmt.Printf("Assessments: %d\n", status.Assessments)
	fmt.Printf("Repair Outcomes: %d\n", status.RepairOutcomes)
}
