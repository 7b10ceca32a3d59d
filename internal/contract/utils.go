package contract

import (
	"fmt"
	"os"

	"github.com/civicscan/fleetdoctor/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // standard danger
	HighColor     = color.New(color.FgMagenta, color.Bold) // strong, distinct warning
	ModerateColor = color.New(color.FgYellow)              // standard caution, not bold
	LowColor      = color.New(color.FgCyan)                // informational signal
	GoodColor     = color.New(color.FgGreen)               // healthy signal
)

// PriorityLabel returns the display label for a priority tier, colored when
// enabled.
func PriorityLabel(tier schema.PriorityTier, useColors bool) string {
	text := titleCase(string(tier))
	if !useColors {
		return text
	}
	switch tier {
	case schema.CriticalPriority:
		return CriticalColor.Sprint(text)
	case schema.HighPriority:
		return HighColor.Sprint(text)
	case schema.MediumPriority:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// HealthLabel returns the display label for a repository health tier,
// colored when enabled.
func HealthLabel(tier schema.HealthTier, useColors bool) string {
	text := titleCase(string(tier))
	if !useColors {
		return text
	}
	switch tier {
	case schema.ExcellentHealth, schema.GoodHealth:
		return GoodColor.Sprint(text)
	case schema.ModerateHealth:
		return ModerateColor.Sprint(text)
	case schema.PoorHealth:
		return HighColor.Sprint(text)
	case schema.CriticalHealth:
		return CriticalColor.Sprint(text)
	default:
		return text
	}
}

// StatusLabel returns the display label for a run status, colored when
// enabled.
func StatusLabel(s schema.Status, useColors bool) string {
	text := string(s)
	if !useColors {
		return text
	}
	switch {
	case s == schema.StatusSuccess:
		return GoodColor.Sprint(text)
	case s == schema.StatusStaleSuccess:
		return ModerateColor.Sprint(text)
	case s.IsFailure():
		return CriticalColor.Sprint(text)
	default:
		return text
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	for i := 1; i < len(b); i++ {
		if b[i] == '_' {
			b[i] = ' '
			if i+1 < len(b) && b[i+1] >= 'a' && b[i+1] <= 'z' {
				b[i+1] -= 'a' - 'A'
			}
		}
	}
	return string(b)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}
