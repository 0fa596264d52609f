package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"text/tabwriter"

	"golang.org/x/sys/unix"

	"github.com/sublee/tagunion/internal/codefmt"
	tagunioninternal "github.com/sublee/tagunion/internal/tagunion"
)

var Version = "dev"

var (
	bFlag = flag.String("b", "", "comma-separated build tags")
	tFlag = flag.Bool("t", false, "include tests")
	oFlag = flag.String("o", "tagunion_gen.go", "output file name")
	cFlag = flag.String("c", "auto", "colorize (auto|always|never)")
	vFlag = flag.Bool("v", false, "print the layout and capabilities of generated unions")
)

func init() {
	tagunioninternal.Version = Version
}

func main() {
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := false
	switch *cFlag {
	case "auto":
		color = isatty()
	case "always":
		color = true
	case "never":
		color = false
	default:
		fmt.Fprintln(os.Stderr, "invalid -c value:", *cFlag)
		os.Exit(1)
	}

	outs, err := tagunioninternal.Main(context.Background(), wd, os.Environ(), *bFlag, *tFlag, *oFlag, flag.Args())
	if err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}

	for _, out := range outs {
		if err := os.WriteFile(out.Path, out.Code, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		path := out.Path
		if rel, err := filepath.Rel(wd, path); err == nil {
			path = rel
		}
		fmt.Println("Generated:", path)

		if *vFlag {
			describe(os.Stdout, out)
		}
	}
}

// describe prints a table of the unions in the output.
//
//	UNION  LAYOUT   CAPABILITIES                                               POSITION
//	Value  overlay  Clone, CopyFrom, Take, MoveFrom, Equal, Destroy (trivial)  value.go:9:6
func describe(w io.Writer, out tagunioninternal.Output) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "UNION\tLAYOUT\tCAPABILITIES\tPOSITION\n")
	for _, u := range out.Unions {
		layout, caps := u.Describe()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Schema.Name(), layout, caps, codefmt.FormatPos(u, u.Pos()))
	}
	_ = tw.Flush()
}

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	rePos  = regexp.MustCompile(`(?m)^[^\s:]+\.go:\d+:\d+:`)
	reHint = regexp.MustCompile(`(?m); (first at|already declared).*$`)
)

// colorize adds ANSI color codes to the message.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)
	m := []byte(message)
	m = rePos.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(dim + string(b) + reset)
	})
	m = reHint.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(red + string(b) + reset)
	})
	return string(m)
}
