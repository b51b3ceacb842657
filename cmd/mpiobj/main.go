package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/handle"
	"github.com/wippyai/mpi-runtime/runtime"
)

func main() {
	var (
		keyvals     = flag.Int("keyvals", 0, "Create N window keyvals (extra state = index)")
		commit      = flag.Bool("commit", false, "Commit the predefined pair datatypes")
		script      = flag.String("script", "", "Run a YAML scenario file")
		capacity    = flag.Int("capacity", 0, "Keyval and datatype pool capacity (0 = unbounded)")
		verbose     = flag.Bool("v", false, "Log object operations to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
		defer log.Sync()
	}
	attr.SetLogger(log)
	datatype.SetLogger(log)

	p := runtime.New(&runtime.Config{
		Logger:           log,
		KeyvalCapacity:   *capacity,
		DatatypeCapacity: *capacity,
	})

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(p); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *keyvals == 0 && !*commit && *script == "" {
		fmt.Fprintln(os.Stderr, "Usage: mpiobj -keyvals N [-commit] [-capacity N] [-v]")
		fmt.Fprintln(os.Stderr, "       mpiobj -script scenario.yaml")
		fmt.Fprintln(os.Stderr, "       mpiobj -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(p, *keyvals, *commit, *script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(p *runtime.Process, keyvals int, commit bool, script string) error {
	fmt.Printf("Process: %s\n", p.ID())

	for i := 0; i < keyvals; i++ {
		var kv handle.Handle
		if err := p.CreateWinKeyval(attr.DupFn, attr.NullDeleteFn, &kv, i); err != nil {
			return fmt.Errorf("create window keyval %d: %w", i, err)
		}
	}

	if commit {
		for _, h := range datatype.Pairs() {
			if err := p.CommitDatatypeRepresentation(h); err != nil {
				return fmt.Errorf("commit %s: %w", h, err)
			}
		}
	}

	if script != "" {
		sc, err := loadScenario(script)
		if err != nil {
			return err
		}
		fmt.Printf("Scenario: %s (%d steps)\n", script, len(sc.Steps))
		if err := sc.Run(p, os.Stdout); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(renderReport(p))
	return nil
}
