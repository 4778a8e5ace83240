package display

import (
	"github.com/fatih/color"
)

var bannerColor = color.New(color.FgHiMagenta, color.Bold)

// PrintBanner prints the ASCII art banner; colored when colors are enabled.
func PrintBanner() {
	_, _ = bannerColor.Fprint(color.Output, ` ____           _ _____
|  _ \ ___  ___| |  ___|__  _ __ __ _  ___
| |_) / _ \/ _ \ | |_ / _ \| '__/ _`+"`"+` |/ _ \
|  _ <  __/  __/ |  _| (_) | | | (_| |  __/
|_| \_\___|\___|_|_|  \___/|_|  \__, |\___|
                                |___/
`)
}
