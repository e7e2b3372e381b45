package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/slytherin-afk/typhoon"
)

const (
	appName     = "typhoon"
	historyFile = ".typhoon_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

// Exit codes follow the usual interpreter convention: 65 for static
// (lex/parse/resolve) errors, 70 for uncaught runtime errors, 74 when the
// script file cannot be read.
const (
	exitOK      = 0
	exitUsage   = 2
	exitStatic  = 65
	exitRuntime = 70
	exitNoRead  = 74
)

var banner = fmt.Sprintf("Typhoon %s REPL\nCtrl+C cancels input, Ctrl+D exits.", typhoon.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	switch {
	case len(os.Args) < 2:
		os.Exit(runRepl())
	case os.Args[1] == "version":
		fmt.Println(typhoon.Version)
	case os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help":
		usage()
	case len(os.Args) == 2:
		os.Exit(runFile(os.Args[1]))
	default:
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Printf(`Typhoon %s

Usage:
  %s               Start the REPL.
  %s <file.ty>     Run a script.
  %s version       Print the version.

`, typhoon.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitNoRead
	}

	ip := typhoon.NewInterpreter()
	_, runErr := ip.EvalSource(string(src))
	if runErr == nil {
		return exitOK
	}

	fmt.Fprintln(os.Stderr, typhoon.WrapErrorWithName(runErr, path, string(src)).Error())

	var rt *typhoon.RuntimeError
	if errors.As(runErr, &rt) {
		return exitRuntime
	}
	return exitStatic
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One persistent interpreter per session: earlier declarations stay
	// visible to later lines.
	ip := typhoon.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(typhoon.WrapErrorWithSource(err, code).Error()))
			continue
		}
		if v.Tag != typhoon.VTNil {
			fmt.Println(blue(typhoon.FormatValue(v)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return exitOK
}

// readByParseProbe accumulates lines until the input parses or fails with
// a non-incomplete error, so multi-line constructs work at the prompt.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := typhoon.ParseSource(src); perr == nil || !typhoon.IsIncomplete(perr) {
			return src, true
		}
	}
}
