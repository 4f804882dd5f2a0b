package app

import (
	"path/filepath"
	"strings"
)

// TitleSeparator joins the command line words of the window title.
const TitleSeparator = " - "

// Title returns the window title for argv: the arguments joined by
// TitleSeparator, or the program name when there are none.
func Title(argv []string) string {
	if len(argv) > 1 {
		return strings.Join(argv[1:], TitleSeparator)
	}
	if len(argv) == 1 {
		return filepath.Base(argv[0])
	}
	return "ceiba-helper"
}
