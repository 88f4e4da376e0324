package cmd

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
)

var bannerFonts = []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "doom", "larry3d", "puffy", "rectangles"}

// printBanner prints text in a random figlet font.
func printBanner(w io.Writer, text string) {
	fig := figure.NewFigure(text, bannerFonts[rand.Intn(len(bannerFonts))], true)
	fmt.Fprintln(w, fig.String())
}
