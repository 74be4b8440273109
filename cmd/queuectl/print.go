package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
)

// printError prints err in red to stderr. Callers exit 1 afterward.
func printError(err error) {
	fmt.Fprintln(os.Stderr, color.Red.Sprint(err.Error()))
}

func printSuccess(format string, args ...any) {
	color.Green.Println(fmt.Sprintf(format, args...))
}

func printWarn(format string, args ...any) {
	color.Yellow.Println(fmt.Sprintf(format, args...))
}
