// Command codegraph extracts a code-relationship graph from a JavaScript/
// TypeScript or PHP source tree and reports per-node connectivity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnana997/codegraph/pkg/bridge"
	"github.com/gnana997/codegraph/pkg/extract"
	"github.com/gnana997/codegraph/pkg/graph"
	mcpserver "github.com/gnana997/codegraph/pkg/mcp"
	"github.com/gnana997/codegraph/pkg/report"
	"github.com/gnana997/codegraph/pkg/scanner"
	"github.com/gnana997/codegraph/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch command := os.Args[1]; command {
	case "scan":
		err = runScan(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Printf("codegraph %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: codegraph <command> [flags] <path>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan       Scan a source tree and write the relationship graph")
	fmt.Println("  watch      Rescan on file changes")
	fmt.Println("  serve      Start MCP server over a scanned graph")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}

// commonFlags are shared by the scanning subcommands.
type commonFlags struct {
	Output    string
	Exclude   string
	LogLevel  string
	LogFormat string
}

func (cf *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.Output, "output", "", "path for the graph JSON artifact")
	fs.StringVar(&cf.Exclude, "exclude", "", "comma-separated extra exclude glob patterns")
	fs.StringVar(&cf.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&cf.LogFormat, "log-format", "", "log format: text, json")
}

// setup applies the flag > config > default chain and installs the logger.
// It returns the resolved output path and scan options.
func (cf *commonFlags) setup(cfg *ProjectConfig) (string, scanner.ScanOptions) {
	logCfg := util.DefaultLoggerConfig()
	if level := firstNonEmpty(cf.LogLevel, cfgLogLevel(cfg)); level != "" {
		logCfg.Level = util.LogLevel(level)
	}
	if format := firstNonEmpty(cf.LogFormat, cfgLogFormat(cfg)); format != "" {
		logCfg.Format = util.LogFormat(format)
	}
	util.SetDefault(util.NewLogger(logCfg))

	options := scanner.DefaultScanOptions()
	if cfg != nil {
		options.Exclude = append(options.Exclude, cfg.Exclude...)
	}
	for _, pattern := range strings.Split(cf.Exclude, ",") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			options.Exclude = append(options.Exclude, pattern)
		}
	}

	return resolveOutputPath(cf.Output, cfg), options
}

func runScan(args []string) error {
	var flags commonFlags
	var execCmd string
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	flags.register(fs)
	fs.StringVar(&execCmd, "exec", "", "delegate extraction to an external analyzer command (the analyzer owns file selection; -exclude patterns do not apply)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, err := requirePath(fs)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	output, options := flags.setup(cfg)

	var g *graph.Graph
	if execCmd != "" {
		if flags.Exclude != "" {
			slog.Warn("-exclude is ignored with -exec; the external analyzer owns file selection")
		}
		g, err = scanWithBridge(execCmd, root)
	} else {
		ts := scanner.NewTreeScanner(extract.DefaultRegistry(), nil)
		g, _, err = ts.Scan(root, options, nil)
	}
	if err != nil {
		return err
	}

	report.PrintSummary(os.Stdout, g)
	if err := report.Save(g, output); err != nil {
		return err
	}
	fmt.Printf("\nSaved to: %s\n", output)
	return nil
}

// scanWithBridge runs one external analyzer invocation for the whole tree
// and finalizes its payload into a graph.
func scanWithBridge(execCmd, root string) (*graph.Graph, error) {
	parts := strings.Fields(execCmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty -exec command")
	}
	analyzer := bridge.New(parts[0], parts[1:], nil)
	if err := analyzer.Check(); err != nil {
		return nil, err
	}

	res, err := analyzer.Run(context.Background(), root)
	if err != nil {
		return nil, err
	}

	builder := graph.NewBuilder()
	builder.AddResult(res)
	return builder.Finalize(), nil
}

func runWatch(args []string) error {
	var flags commonFlags
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.register(fs)
	debounce := fs.Duration("debounce", scanner.DefaultWatchOptions().Debounce, "delay before rescanning after a change burst")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, err := requirePath(fs)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	output, options := flags.setup(cfg)

	ts := scanner.NewTreeScanner(extract.DefaultRegistry(), nil)
	g, _, err := ts.Scan(root, options, nil)
	if err != nil {
		return err
	}
	report.PrintSummary(os.Stdout, g)
	if err := report.Save(g, output); err != nil {
		return err
	}

	onRescan := func(g *graph.Graph, _ *scanner.ScanStats, err error) {
		if err != nil {
			return // already logged by the watcher
		}
		fmt.Println()
		report.PrintSummary(os.Stdout, g)
		if err := report.Save(g, output); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	watcher, err := scanner.NewTreeWatcher(ts, root, options, scanner.WatchOptions{Debounce: *debounce}, onRescan, nil)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", root)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func runServe(args []string) error {
	var flags commonFlags
	var graphPath string
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.register(fs)
	fs.StringVar(&graphPath, "graph", "", "serve a previously saved graph artifact instead of scanning")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	_, options := flags.setup(cfg)

	var g *graph.Graph
	if graphPath != "" {
		g, err = graph.LoadFromFile(graphPath)
		if err != nil {
			return err
		}
	} else {
		root, err := requirePath(fs)
		if err != nil {
			return err
		}
		ts := scanner.NewTreeScanner(extract.DefaultRegistry(), nil)
		g, _, err = ts.Scan(root, options, nil)
		if err != nil {
			return err
		}
	}

	srv := mcpserver.NewServer(g, nil)
	return srv.ServeStdio()
}

// requirePath returns the single positional path argument.
func requirePath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one path argument")
	}
	return fs.Arg(0), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cfgLogLevel(cfg *ProjectConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.LogLevel
}

func cfgLogFormat(cfg *ProjectConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.LogFormat
}
