package infra

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const bannerWidth = 86

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// BannerInfo is what the startup banner shows.
type BannerInfo struct {
	Node              string
	Name              string
	Version           string
	ChainID           string
	Address           string
	DomainSeparator   string
	ConduitController string
	ConduitCodeHash   string
	StorageDriver     string
}

// PrintBanner displays the startup banner on stdout.
func PrintBanner(info BannerInfo) {
	WriteBanner(os.Stdout, info)
}

// WriteBanner writes the banner to w. Local dev chains are shown in yellow.
func WriteBanner(w io.Writer, info BannerInfo) {
	color := ColorGreen
	network := "LIVE NETWORK"
	switch info.ChainID {
	case "1337", "31337":
		color = ColorYellow
		network = "LOCAL DEV CHAIN"
	}

	line := func(label, value string) {
		fmt.Fprintf(w, "%s#   %-11s %-68s #%s\n", color, label, value, ColorReset)
	}
	rule := strings.Repeat("#", bannerWidth)
	blank := "#" + strings.Repeat(" ", bannerWidth-2) + "#"

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s%s\n", color, rule, ColorReset)
	fmt.Fprintf(w, "%s%s%s\n", color, blank, ColorReset)
	fmt.Fprintf(w, "%s#   %-80s #%s\n", ColorCyan, info.Name+" "+info.Version, ColorReset)
	fmt.Fprintf(w, "%s%s%s\n", color, blank, ColorReset)
	line("NODE:", info.Node)
	line("NETWORK:", network)
	line("CHAIN ID:", info.ChainID)
	line("ADDRESS:", info.Address)
	line("DOMAIN:", info.DomainSeparator)
	line("CONTROLLER:", info.ConduitController)
	line("CODE HASH:", info.ConduitCodeHash)
	line("STORAGE:", info.StorageDriver)
	fmt.Fprintf(w, "%s%s%s\n", color, blank, ColorReset)
	fmt.Fprintf(w, "%s%s%s\n", color, rule, ColorReset)
	fmt.Fprintln(w)
}
