package output

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner display.
type BannerOptions struct {
	ShowBanner  bool // Show ASCII art logo
	ShowVersion bool // Show version information
	ShowLicense bool // Show license information
}

// DefaultBannerOptions returns default banner configuration.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		ShowBanner:  true,
		ShowVersion: true,
		ShowLicense: true,
	}
}

// PrintBanner displays the ircfg logo and information.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}

	if !opts.ShowBanner {
		// Simple text-only banner
		if opts.ShowVersion {
			fmt.Fprintf(w, "ircfg v%s\n", version)
		}
		fmt.Fprintln(w, "UAST-to-CFG analysis pipeline")
		if opts.ShowLicense {
			fmt.Fprintf(w, "License: MIT | https://github.com/jskeetcode/ircfg\n")
		}
		fmt.Fprintln(w)
		return
	}

	// Generate ASCII art using go-figure
	asciiArt := GetASCIILogo()
	fmt.Fprintln(w, asciiArt)
	fmt.Fprintln(w, "UAST-to-CFG analysis pipeline")

	// Version and license info
	if opts.ShowVersion {
		fmt.Fprintf(w, "Version: %s\n", version)
	}

	if opts.ShowLicense {
		fmt.Fprintln(w, "License: MIT | https://github.com/jskeetcode/ircfg")
	}

	// Empty line separator
	fmt.Fprintln(w)
}

// GetASCIILogo generates the ASCII art logo for "ircfg".
func GetASCIILogo() string {
	// Use "standard" font for compact output
	fig := figure.NewFigure("ircfg", "standard", true)
	return fig.String()
}

// GetCompactBanner returns a single-line banner for non-TTY output.
func GetCompactBanner(version string) string {
	return fmt.Sprintf("ircfg v%s | UAST-to-CFG analysis pipeline | https://github.com/jskeetcode/ircfg", version)
}

// ShouldShowBanner determines if banner should be displayed.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	// Never show if --no-banner is set
	if noBannerFlag {
		return false
	}
	// Show full banner only in TTY
	return isTTY
}
