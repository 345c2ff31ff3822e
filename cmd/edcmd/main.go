package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ddkwork/golibrary/mylog"
	"github.com/ogier/pflag"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/jeffwilliams/edcmd/internal/buffer"
	"github.com/jeffwilliams/edcmd/internal/errs"
	"github.com/jeffwilliams/edcmd/internal/expr"
	"github.com/jeffwilliams/edcmd/internal/settings"
)

const programName = "edcmd"

var (
	optExpr        = pflag.StringP("expr", "e", "", "Run the command string against the buffer")
	optScript      = pflag.StringP("script", "f", "", "Run the commands in the file, one per line")
	optInteractive = pflag.BoolP("interactive", "i", false, "Read commands from the terminal after -e and -f")
	optOutput      = pflag.StringP("output", "o", "", "Write the final buffer to this file instead of stdout")
	optInPlace     = pflag.BoolP("in-place", "w", false, "Write the final buffer back to the input file")
	optSettings    = pflag.String("settings", settings.ConfigFile(), "Settings file")
	optDebugStdout = pflag.BoolP("dbg", "b", false, "Print debug logs to stdout")
	optProfile     = pflag.BoolP("profile", "p", false, "Profile the code CPU usage. The profile file location is printed to stdout.")
	optProfileHeap = pflag.Bool("profile-heap", false, "With --profile, profile heap allocations instead of CPU usage")
	optHistory     = pflag.String("history", "", "Dump the command history to stderr on exit as csv or json")
)

func main() {
	mylog.Call(func() { run() })
}

func run() {
	parseAndValidateOptions()

	if *optProfile {
		startProfiling(*optProfileHeap)
	}

	conf := mylog.Check2(settings.Load(*optSettings))
	log(LogCatgConfig, "Loaded settings from config file %s\n", *optSettings)
	initDebugging()

	fs := afero.NewOsFs()
	path := pflag.Arg(0)
	b := mylog.Check2(loadBuffer(fs, path, os.Stdin))
	log(LogCatgApp, "Loaded %q: %d rows\n", path, b.Rows())

	s := newSession(b, expr.Env{
		Settings: conf,
		Fs:       fs,
		Output:   os.Stdout,
		Piper:    shellPiper{shell: conf.Shell},
	})

	var failed errs.List
	if *optExpr != "" {
		failed.Add(s.run(*optExpr))
	}
	if *optScript != "" {
		f := mylog.Check2(os.Open(*optScript))
		cmds, err := readScript(f)
		f.Close()
		mylog.Check(err)
		failed.Add(s.runAll(cmds))
	}
	if *optInteractive {
		s.repl()
	}

	mylog.Check(writeResult(s, path))

	if *optHistory != "" {
		mylog.Check(s.history.Write(os.Stderr, *optHistory))
	}

	if failed.Err() != nil && !*optInteractive {
		log(LogCatgApp, "%d commands failed\n", failed.Len())
		Exit(1)
	}
	Exit(0)
}

func parseAndValidateOptions() {
	pflag.Parse()

	if pflag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "At most one file may be given\n")
		Exit(2)
	}
	if *optInPlace && (pflag.Arg(0) == "" || pflag.Arg(0) == "-") {
		fmt.Fprintf(os.Stderr, "The option --in-place needs a file argument\n")
		Exit(2)
	}
	if *optInPlace && *optOutput != "" {
		fmt.Fprintf(os.Stderr, "The options --in-place and --output can't be used together\n")
		Exit(2)
	}
	if *optInteractive && pflag.Arg(0) == "-" {
		fmt.Fprintf(os.Stderr, "The option --interactive can't be used when the file is read from stdin\n")
		Exit(2)
	}
	if *optHistory != "" && *optHistory != "csv" && *optHistory != "json" {
		fmt.Fprintf(os.Stderr, "The option --history must be csv or json\n")
		Exit(2)
	}
}

// loadBuffer reads the buffer to edit. An empty path is an empty buffer and - is
// stdin.
func loadBuffer(fs afero.Fs, path string, stdin io.Reader) (buffer.Buffer, error) {
	switch path {
	case "":
		return buffer.New(""), nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return buffer.Buffer{}, err
		}
		return buffer.New(string(data)), nil
	}

	b, err := buffer.ReadFromFile(fs, path)
	if os.IsNotExist(errors.Cause(err)) {
		b = buffer.New("")
		b.Name = path
		return b, nil
	}
	return b, err
}

// writeResult puts the final buffer where the options say.
func writeResult(s *session, path string) error {
	switch {
	case *optInPlace:
		_, err := buffer.SaveToFile(s.buf, s.fs, path)
		return err
	case *optOutput != "":
		_, err := buffer.SaveToFile(s.buf, s.fs, *optOutput)
		return err
	case *optInteractive:
		return nil
	}
	_, err := io.WriteString(os.Stdout, s.buf.Text())
	return err
}

func Exit(code int) {
	stopProfiling()
	os.Exit(code)
}

func init() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Edit file, or stdin when file is -, with structural editing commands.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")

		pflag.PrintDefaults()
	}
}
