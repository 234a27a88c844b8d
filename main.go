package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lookbusy1344/lc3-emulator/api"
	"github.com/lookbusy1344/lc3-emulator/config"
	"github.com/lookbusy1344/lc3-emulator/debugger"
	"github.com/lookbusy1344/lc3-emulator/loader"
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		maxCycles   = flag.Uint64("max-cycles", vm.DefaultMaxCycles, "Maximum CPU cycles before halt")
		program     = flag.String("program", "", "Assembly file to assemble and run (also accepted as the first positional argument)")
		entrypoint  = flag.String("entrypoint", "", "Entry point address or label (default: the first .ORIG segment)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")

		enableTrace         = flag.Bool("trace", false, "Enable execution trace")
		traceFile           = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		enableStats         = flag.Bool("stats", false, "Enable performance statistics")
		enableCoverage      = flag.Bool("coverage", false, "Enable code coverage tracking")
		coverageFile        = flag.String("coverage-file", "", "Coverage output file (default: coverage.txt)")
		enableRegisterTrace = flag.Bool("register-trace", false, "Enable register change tracing")
		registerTraceFile   = flag.String("register-trace-file", "", "Register trace output file (default: register_trace.txt)")

		dumpSymbols = flag.Bool("dump-symbols", false, "Dump symbol table and exit")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")

		debugMode = flag.Bool("debug", false, "Launch the interactive terminal debugger instead of running to completion")
		apiPort   = flag.Int("api-server", 0, "Run the HTTP/WebSocket debug API on 127.0.0.1:PORT instead of executing a program directly")
	)

	flag.Parse()

	if *apiPort > 0 {
		runAPIServer(*apiPort)
		return
	}

	if *showVersion {
		fmt.Printf("LC-3 Emulator %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	asmFile := *program
	if asmFile == "" && flag.NArg() > 0 {
		asmFile = flag.Arg(0)
	}
	if asmFile == "" {
		printHelp()
		os.Exit(0)
	}
	if _, err := os.Stat(asmFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", asmFile)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Loading and parsing assembly file: %s\n", asmFile)
	}

	prog, _, err := parser.ParseFileSimple(asmFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Assembled %d segment(s)\n", len(prog.Segments))
	}

	machine := vm.NewVM()
	machine.MaxCycles = *maxCycles

	var entryOverride *vm.Word
	if *entrypoint != "" {
		addr, err := resolveEntrypoint(*entrypoint, prog.SymbolTable)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid entrypoint: %v\n", err)
			os.Exit(1)
		}
		entryOverride = &addr
	}

	result, err := loader.LoadProgram(machine, prog, entryOverride)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Entry point: 0x%04X\n", result.EntryPoint)
		fmt.Printf("Segments loaded: %v\n", result.Origins)
	}

	if *dumpSymbols {
		if err := dumpSymbolTable(prog.SymbolTable, *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping symbols: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *debugMode {
		runDebugTUI(machine, asmFile, prog, result)
		os.Exit(0)
	}

	machine.Memory.OutputSink = func(b byte) {
		_, _ = os.Stdout.Write([]byte{b})
	}
	feedStdin(machine)

	diagClosers := setupDiagnostics(machine, result.EntryPoint, diagnosticFlags{
		verbose:           *verboseMode,
		enableTrace:       *enableTrace,
		traceFile:         *traceFile,
		enableStats:       *enableStats,
		enableCoverage:    *enableCoverage,
		coverageFile:      *coverageFile,
		enableRegTrace:    *enableRegisterTrace,
		registerTraceFile: *registerTraceFile,
	})
	defer diagClosers.closeAll()

	if *verboseMode {
		fmt.Println("\nStarting execution...")
		fmt.Println("----------------------------------------")
	}

	machine.State = vm.StateRunning
	runErr := machine.Run()

	if *verboseMode {
		fmt.Println("\n----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("Cycles: %d\n", machine.CPU.Cycles)
		fmt.Printf("Instructions executed: %d\n", len(machine.InstructionLog))
	}

	flushDiagnostics(machine, *verboseMode)

	if runErr != nil && machine.State != vm.StateHalted {
		fmt.Fprintf(os.Stderr, "\nRuntime error at PC=0x%04X: %v\n", machine.CPU.PC, runErr)
		os.Exit(1)
	}

	os.Exit(machine.ExitCode)
}

// resolveEntrypoint accepts either a label already bound in symbols or a
// bare x-hex/#-decimal/bare-decimal address literal.
func resolveEntrypoint(spec string, symbols *parser.SymbolTable) (vm.Word, error) {
	if sym, ok := symbols.Lookup(spec); ok && sym.Defined {
		return sym.Value, nil
	}
	s := spec
	base := 10
	switch {
	case strings.HasPrefix(s, "x") || strings.HasPrefix(s, "X"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a known label nor a numeric address", spec)
	}
	return vm.Word(v), nil
}

// runDebugTUI launches the interactive terminal debugger against an
// already-loaded program, blocking until the user quits.
func runDebugTUI(machine *vm.VM, asmFile string, prog *parser.Program, result *loader.LoadResult) {
	d := debugger.NewDebugger(machine)

	symbols := make(map[string]vm.Word)
	for name, sym := range prog.SymbolTable.GetAllSymbols() {
		if sym.Defined {
			symbols[name] = sym.Value
		}
	}
	d.LoadSymbols(symbols)

	sourceMap := make(map[vm.Word]string, len(result.SourceMap))
	for addr, pos := range result.SourceMap {
		sourceMap[addr] = pos.String()
	}
	d.LoadSourceMap(sourceMap)

	var lines []string
	if f, err := os.Open(asmFile); err == nil { // #nosec G304 -- asmFile was already validated by the caller
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		_ = f.Close()
	}

	tui := debugger.NewTUI(d)
	tui.LoadSource(asmFile, lines)

	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
		os.Exit(1)
	}
}

// runAPIServer starts the HTTP/WebSocket debug API and blocks until
// interrupted, shutting down gracefully on SIGINT/SIGTERM.
func runAPIServer(port int) {
	server := api.NewServer(port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "API server shutdown error: %v\n", err)
			os.Exit(1)
		}
	}
}

// feedStdin loads any input waiting on stdin into the VM's built-in
// keyboard queue so GETC/IN have something to consume without the host
// needing to drive KBSR/KBDR interactively.
func feedStdin(machine *vm.VM) {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return // interactive terminal with nothing piped in; don't block on a Read
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		machine.Memory.PushInput(b)
	}
}

type diagnosticFlags struct {
	verbose           bool
	enableTrace       bool
	traceFile         string
	enableStats       bool
	enableCoverage    bool
	coverageFile      string
	enableRegTrace    bool
	registerTraceFile string
}

// diagFiles tracks the open files diagnostics write to so main can close
// them after a run, independent of which subsystems were enabled.
type diagFiles struct {
	files []*os.File
}

func (d *diagFiles) track(f *os.File) *os.File {
	d.files = append(d.files, f)
	return f
}

func (d *diagFiles) closeAll() {
	for _, f := range d.files {
		_ = f.Close()
	}
}

func openDiagFile(path, defaultName string) (*os.File, error) {
	if path == "" {
		path = defaultName
	}
	return os.Create(path) // #nosec G304 -- user-specified diagnostic output path
}

func setupDiagnostics(machine *vm.VM, entryPoint vm.Word, f diagnosticFlags) *diagFiles {
	closers := &diagFiles{}
	logDir := config.GetLogPath()

	if f.enableTrace {
		path := f.traceFile
		if path == "" {
			path = logDir + string(os.PathSeparator) + "trace.log"
		}
		w, err := openDiagFile(path, "trace.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
		} else {
			closers.track(w)
			machine.ExecutionTrace = vm.NewExecutionTrace(w)
			if f.verbose {
				fmt.Printf("Execution trace enabled: %s\n", path)
			}
		}
	}

	if f.enableStats {
		machine.Statistics = vm.NewPerformanceStatistics()
		if f.verbose {
			fmt.Println("Performance statistics enabled")
		}
	}

	if f.enableCoverage {
		path := f.coverageFile
		if path == "" {
			path = logDir + string(os.PathSeparator) + "coverage.txt"
		}
		w, err := openDiagFile(path, "coverage.txt")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating coverage file: %v\n", err)
		} else {
			closers.track(w)
			machine.CodeCoverage = vm.NewCodeCoverage(w)
			machine.CodeCoverage.SetCodeRange(entryPoint, vm.Word(vm.MemorySize-1))
			if f.verbose {
				fmt.Printf("Code coverage enabled: %s\n", path)
			}
		}
	}

	if f.enableRegTrace {
		path := f.registerTraceFile
		if path == "" {
			path = logDir + string(os.PathSeparator) + "register_trace.txt"
		}
		w, err := openDiagFile(path, "register_trace.txt")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating register trace file: %v\n", err)
		} else {
			closers.track(w)
			machine.RegisterTrace = vm.NewRegisterTrace(w)
			if f.verbose {
				fmt.Printf("Register trace enabled: %s\n", path)
			}
		}
	}

	return closers
}

func flushDiagnostics(machine *vm.VM, verbose bool) {
	if machine.ExecutionTrace != nil {
		if err := machine.ExecutionTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing execution trace: %v\n", err)
		} else if verbose {
			fmt.Printf("Execution trace written (%d entries)\n", len(machine.ExecutionTrace.GetEntries()))
		}
	}

	if machine.Statistics != nil {
		if verbose {
			fmt.Println()
		}
		if err := machine.Statistics.Flush(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing statistics: %v\n", err)
		}
	}

	if machine.CodeCoverage != nil {
		if err := machine.CodeCoverage.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing coverage: %v\n", err)
		}
	}

	if machine.RegisterTrace != nil {
		if err := machine.RegisterTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing register trace: %v\n", err)
		} else if verbose {
			fmt.Printf("Register trace written (%d entries)\n", len(machine.RegisterTrace.GetEntries()))
		}
	}
}

func printHelp() {
	fmt.Printf(`LC-3 Emulator %s

Usage: lc3-emulator [options] <assembly-file>
       lc3-emulator -program <assembly-file> [options]

Options:
  -help              Show this help message
  -version           Show version information
  -max-cycles N      Set maximum CPU cycles (default: %d)
  -program FILE      Assembly file to assemble and run
  -entrypoint ADDR   Entry label or address (default: first .ORIG segment)
  -verbose           Enable verbose output
  -debug             Launch the interactive terminal debugger
  -api-server PORT   Run the HTTP/WebSocket debug API on 127.0.0.1:PORT

Symbol Options:
  -dump-symbols      Dump symbol table and exit
  -symbols-file FILE Symbol dump output file (default: stdout)

Tracing & Performance Options:
  -trace             Enable execution trace
  -trace-file FILE   Trace output file (default: trace.log in log dir)
  -stats             Enable performance statistics (printed to stdout)
  -coverage          Enable code coverage tracking
  -coverage-file F   Coverage output file (default: coverage.txt)
  -register-trace    Enable register change tracing
  -register-trace-file F  Register trace file (default: register_trace.txt)

Examples:
  lc3-emulator examples/hello.asm
  lc3-emulator -entrypoint MAIN -verbose program.asm
  lc3-emulator -trace -stats program.asm
  lc3-emulator -debug program.asm
  lc3-emulator -api-server 8080

Input for GETC/IN is drained from stdin at startup, so piping input works:
  echo "A" | lc3-emulator echo_char.asm

For more information, see SPEC_FULL.md and DESIGN.md.
`, Version, vm.DefaultMaxCycles)
}

// dumpSymbolTable outputs the symbol table in a readable format.
func dumpSymbolTable(st *parser.SymbolTable, filename string) error {
	var writer *os.File
	var err error

	if filename == "" {
		writer = os.Stdout
	} else {
		writer, err = os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close symbol file: %v\n", cerr)
			}
		}()
	}

	allSymbols := st.GetAllSymbols()
	if len(allSymbols) == 0 {
		_, _ = fmt.Fprintln(writer, "No symbols defined")
		return nil
	}

	_, _ = fmt.Fprintln(writer, "Symbol Table")
	_, _ = fmt.Fprintln(writer, "============")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "%-30s %-10s %s\n", "Name", "Address", "Status")
	_, _ = fmt.Fprintln(writer, "--------------------------------------------------------------")

	type symbolEntry struct {
		name   string
		symbol *parser.Symbol
	}
	entries := make([]symbolEntry, 0, len(allSymbols))
	for name, sym := range allSymbols {
		entries = append(entries, symbolEntry{name, sym})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].symbol.Value < entries[j].symbol.Value
	})

	for _, entry := range entries {
		status := "Defined"
		if !entry.symbol.Defined {
			status = "Undefined"
		}
		_, _ = fmt.Fprintf(writer, "%-30s 0x%04X %s\n", entry.name, entry.symbol.Value, status)
	}

	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "Total symbols: %d\n", len(allSymbols))

	return nil
}
