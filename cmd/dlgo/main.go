// Command dlgo drives the linker façade from the command line: load a
// shared object, call an exported symbol, or print its ELF layout.
package main

import (
	"bufio"
	"debug/elf"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dlgo-project/dlgo/internal/linker"
	dlog "github.com/dlgo-project/dlgo/internal/log"
	"github.com/dlgo-project/dlgo/internal/trace"
	"github.com/dlgo-project/dlgo/internal/ui/colorize"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dlgo",
		Short: "Load and call symbols from ELF64 x86_64 shared objects without the system loader",
		Long: `dlgo maps a position-independent shared object into this process's own
address space, resolves its relocations, runs its constructors, and lets you
call its exported symbols directly - a small, from-scratch dlopen/dlsym.

Examples:
  dlgo load libfoo.so            # round-trip load/construct/destruct/unload
  dlgo call libfoo.so add 10 20  # load, call add(10, 20), print result, unload
  dlgo info libfoo.so            # print ELF header and segment layout only`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dlog.Init(verbose)
			linker.SetLogger(dlog.L)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode (result only)")

	rootCmd.AddCommand(loadCmd(), callCmd(), infoCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <binary.so>",
		Short: "Load, construct, destruct, and unload a shared object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := uuid.New()
			w := newOutputWriter()
			defer w.Close()

			h := linker.Dlopen(args[0], linker.Now)
			if h == 0 {
				msg, _ := linker.Dlerror()
				return fmt.Errorf("load failed: %s", msg)
			}
			if !quiet {
				w.Write(fmt.Sprintf("%s %s  %s %s  %s %s",
					colorize.Header("loaded"), colorize.Module(filepath.Base(args[0])),
					colorize.Detail("handle"), colorize.Address(uint64(h)),
					colorize.Detail("session"), session.String()))
			}
			if err := linker.DefaultRegistry.Unload(h); err != nil {
				return err
			}
			if !quiet {
				w.Write(colorize.Header("unloaded"))
			}
			return nil
		},
	}
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <binary.so> <symbol> [args...]",
		Short: "Load a shared object, call an exported int32(...) function, unload",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, symbol, rest := args[0], args[1], args[2:]

			intArgs := make([]int32, len(rest))
			for i, a := range rest {
				n, err := strconv.ParseInt(a, 10, 32)
				if err != nil {
					return fmt.Errorf("argument %q is not an int32: %w", a, err)
				}
				intArgs[i] = int32(n)
			}

			var events trace.Collector
			m, err := linker.DefaultRegistry.LoadTraced(path, linker.Now, func(relType string, target, value uint64) {
				e := trace.NewEvent(filepath.Base(path), string(trace.Reloc), relType, "")
				e.Annotate("target", dlog.Hex(target))
				e.Annotate("value", dlog.Hex(value))
				events.Add(e)
			})
			if err != nil {
				msg, _ := linker.Dlerror()
				return fmt.Errorf("load failed: %s", msg)
			}
			defer linker.DefaultRegistry.Unload(m.Handle())

			if verbose {
				for _, e := range events.Drain() {
					fmt.Printf("%s %s %s target=%s value=%s\n",
						colorize.Module(e.Module), e.PrimaryTag(), colorize.RelocType(e.Name),
						e.Annotations.Get("target"), e.Annotations.Get("value"))
				}
			}

			addr, err := linker.DefaultRegistry.Lookup(m.Handle(), symbol)
			if err != nil {
				msg, _ := linker.Dlerror()
				return fmt.Errorf("lookup %q failed: %s", symbol, msg)
			}

			ret := linker.CallInt32(addr, intArgs)
			if !quiet {
				fmt.Printf("%s(%v) = %s\n", colorize.Symbol(symbol), intArgs, colorize.Value(fmt.Sprintf("%d", ret)))
			} else {
				fmt.Println(ret)
			}
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <binary.so>",
		Short: "Print ELF header, segment, and dynamic-section summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ef, err := elf.NewFile(f)
			if err != nil {
				return fmt.Errorf("%s: %w", colorize.Error("not a valid ELF file"), err)
			}

			fmt.Println(colorize.Header("ELF header"))
			fmt.Printf("  class=%s data=%s type=%s machine=%s entry=%s\n",
				ef.Class, ef.Data, ef.Type, ef.Machine, colorize.Address(uint64(ef.Entry)))

			fmt.Println(colorize.Header("program headers"))
			for _, p := range ef.Progs {
				fmt.Printf("  %-12s vaddr=%s filesz=%#x memsz=%#x flags=%s\n",
					p.Type, colorize.Address(p.Vaddr), p.Filesz, p.Memsz, p.Flags)
			}

			if dynsec := ef.Section(".dynsym"); dynsec != nil {
				fmt.Printf("%s %d entries\n", colorize.Header(".dynsym"), dynsec.Size/dynsec.Entsize)
			}
			return nil
		},
	}
}

// outputWriter buffers the load subcommand's output lines and writes them
// from a background goroutine, flushing every 20ms and on Close. Write
// drops a line when the 256-line buffer is full.
type outputWriter struct {
	ch     chan string
	done   chan struct{}
	writer *bufio.Writer
}

func newOutputWriter() *outputWriter {
	w := &outputWriter{
		ch:     make(chan string, 256),
		done:   make(chan struct{}),
		writer: bufio.NewWriter(os.Stdout),
	}
	go w.run()
	return w
}

func (w *outputWriter) run() {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case line, ok := <-w.ch:
			if !ok {
				w.writer.Flush()
				close(w.done)
				return
			}
			w.writer.WriteString(line)
			w.writer.WriteByte('\n')
		case <-ticker.C:
			w.writer.Flush()
		}
	}
}

func (w *outputWriter) Write(line string) {
	select {
	case w.ch <- line:
	default:
	}
}

func (w *outputWriter) Close() {
	close(w.ch)
	<-w.done
}
