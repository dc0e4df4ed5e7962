// Package main provides a command-line runner for contract bytecode.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/XDagger/xdagj-sub001/config"
	"github.com/XDagger/xdagj-sub001/core/evm/asm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

var (
	version   = "0.1.0"
	gitCommit = "development"
)

func main() {
	// Code flags
	codeHex := flag.String("code", "", "Contract bytecode as hex")
	asmSrc := flag.String("asm", "", "Contract code as mnemonics, e.g. \"PUSH1 0x01 PUSH1 0x00 SSTORE\"")
	input := flag.String("input", "", "Call data as hex")
	create := flag.Bool("create", false, "Run the code as init code of a contract creation")

	// Transaction flags
	gas := flag.Uint64("gas", 10_000_000, "Gas limit of the transaction")
	value := flag.Uint64("value", 0, "Value sent with the transaction")
	number := flag.Uint64("number", 1, "Block number")

	// Engine flags
	fork := flag.String("fork", "", "Rule set: frontier, byzantium or constantinople")
	logLevel := flag.String("loglevel", "", "Log level: trace, debug, info, warn, error, crit")

	// Output flags
	stats := flag.Bool("stats", false, "Print a per-opcode gas summary")
	dump := flag.Bool("dump", false, "Dump the full receipt")
	disasm := flag.Bool("disasm", false, "Disassemble the code and exit")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Parse()

	if *showVersion {
		fmt.Printf("xdagvm %s (%s)\n", version, gitCommit)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *fork != "" {
		cfg.Fork = *fork
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid configuration: %v", err)
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		fatalf("Failed to set up logging: %v", err)
	}

	code, err := loadCode(*codeHex, *asmSrc)
	if err != nil {
		fatalf("Failed to load code: %v", err)
	}

	if *disasm {
		for _, in := range asm.Disassemble(code) {
			fmt.Printf("%05d  %s\n", in.PC, in)
		}
		os.Exit(0)
	}

	runner, err := NewRunner(cfg, RunOptions{
		Code:   code,
		Input:  common.FromHex(*input),
		Gas:    *gas,
		Value:  *value,
		Create: *create,
		Number: *number,
		Stats:  *stats,
	})
	if err != nil {
		fatalf("Failed to create runner: %v", err)
	}

	receipt, err := runner.Run()
	if err != nil {
		fatalf("Transaction rejected: %v", err)
	}

	if *dump {
		dumpReceipt(os.Stdout, receipt)
	} else {
		printReceipt(os.Stdout, receipt)
	}
	if *stats {
		fmt.Fprintln(os.Stderr)
		runner.WriteStats(os.Stderr)
	}
	if !receipt.Success {
		os.Exit(1)
	}
}

var logLevels = map[string]slog.Level{
	"":      log.LevelInfo,
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

// parseLogLevel maps a configured level name onto a log level.
func parseLogLevel(name string) (slog.Level, error) {
	lvl, ok := logLevels[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", config.ErrUnknownLogLevel, name)
	}
	return lvl, nil
}

// setupLogging installs a terminal handler at the given level.
func setupLogging(level string) error {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	return nil
}

// loadCode returns the bytecode from either the hex or the mnemonic flag.
func loadCode(codeHex, src string) ([]byte, error) {
	switch {
	case codeHex != "" && src != "":
		return nil, fmt.Errorf("-code and -asm are mutually exclusive")
	case src != "":
		return asm.Compile(src)
	case codeHex != "":
		return common.FromHex(codeHex), nil
	default:
		return nil, errNoCode
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
