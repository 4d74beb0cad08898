// Package banner provides the startup disclaimer shown before anything else runs.
package banner

import (
	"strings"

	"github.com/fatih/color"
)

// Disclaimer returns the responsible-use warning printed on every startup.
func Disclaimer() string {
	rule := strings.Repeat("━", 60)
	warn := color.New(color.FgYellow, color.Bold)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(warn.Sprint("WARNING: use this tool responsibly.") + "\n")
	b.WriteString("Garuda is built for education and authorized security testing.\n")
	b.WriteString("The authors accept no responsibility for any misuse.\n")
	b.WriteString(rule + "\n\n")
	return b.String()
}
