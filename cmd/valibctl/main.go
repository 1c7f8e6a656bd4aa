// Command valibctl drives the filter graph over a WAV file from the
// command line: decode, remix, resample, equalize, bass-redirect, AGC/DRC,
// delay, dither, encode (spec.md §4's pipeline, end to end).
package main

import (
	"fmt"
	"os"

	"github.com/valib-go/valib/cmd/valibctl/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
