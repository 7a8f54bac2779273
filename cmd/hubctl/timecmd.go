package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fiddotdev/hub-go/message"
)

func cmdTime(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "time subcommand required: now, to, from")
		return 2
	}
	switch args[0] {
	case "now":
		if len(args) != 1 {
			fmt.Fprintln(errOut, "usage: hubctl time now")
			return 2
		}
		t, err := message.Now()
		if err != nil {
			return exitCode(errOut, "time now", err)
		}
		fmt.Fprintln(out, t)
		return 0
	case "to", "from":
		if len(args) != 2 {
			fmt.Fprintf(errOut, "usage: hubctl time %s <integer>\n", args[0])
			return 2
		}
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(errOut, "invalid integer %q\n", args[1])
			return 2
		}
		convert := message.ToFarcasterTime
		if args[0] == "from" {
			convert = message.FromFarcasterTime
		}
		r, err := convert(v)
		if err != nil {
			return exitCode(errOut, "time "+args[0], err)
		}
		fmt.Fprintln(out, r)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown time subcommand: %s\n", args[0])
		return 2
	}
}
