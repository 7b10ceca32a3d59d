package outwriter

import (
	"os"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for agent names in table
// output based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting:
	// Rank + Status + Complexity + Effort + Priority + Recommendation
	baseWidth := 75

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for the agent name
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 50 {
		// Maximum name width to prevent overly long names
		return 50
	}
	return available
}

// TruncateName shortens an agent name to maxWidth with a trailing ellipsis,
// keeping the distinctive prefix visible.
func TruncateName(name string, maxWidth int) string {
	if len(name) <= maxWidth {
		return name
	}
	if maxWidth <= 3 {
		return name[:maxWidth]
	}
	return name[:maxWidth-3] + "..."
}
