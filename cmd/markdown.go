package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
)

var rawMarkdown = flag.Bool("raw", false, "print reports as raw markdown instead of rendering them for the terminal")

// printMarkdown renders md for the terminal, or prints it as is with -raw or
// when rendering fails.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
