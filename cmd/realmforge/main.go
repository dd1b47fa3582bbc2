// RealmForge is a fantasy RPG state engine with Lua-defined worlds.
// Usage: realmforge [--version] [--plain] [--script <file>] [--trace]
//
//	[--serve] [--addr <host:port>] [--balance <file>]
//	[--timescale <duration>] [--seed <n>] <world_directory>
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mwynn/realmforge/balance"
	"github.com/mwynn/realmforge/cli"
	"github.com/mwynn/realmforge/contract"
	"github.com/mwynn/realmforge/engine"
	"github.com/mwynn/realmforge/loader"
	"github.com/mwynn/realmforge/sched"
	"github.com/mwynn/realmforge/server"
	"github.com/mwynn/realmforge/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	serve := false
	addr := ":8080"
	balanceFile := ""
	timescale := time.Duration(0)
	seed := int64(1)
	var worldDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("realmforge %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--serve":
			serve = true
		case "--addr":
			if i+1 >= len(args) {
				fatal("--addr requires a host:port")
			}
			i++
			addr = args[i]
		case "--balance":
			if i+1 >= len(args) {
				fatal("--balance requires a file path")
			}
			i++
			balanceFile = args[i]
		case "--timescale":
			if i+1 >= len(args) {
				fatal("--timescale requires a duration (e.g. 1s)")
			}
			i++
			d, err := time.ParseDuration(args[i])
			if err != nil {
				fatal(fmt.Sprintf("bad --timescale: %v", err))
			}
			timescale = d
		case "--seed":
			if i+1 >= len(args) {
				fatal("--seed requires a number")
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fatal(fmt.Sprintf("bad --seed: %v", err))
			}
			seed = n
		case "--script":
			if i+1 >= len(args) {
				fatal("--script requires a file path")
			}
			i++
			scriptFile = args[i]
		default:
			if worldDir == "" {
				worldDir = args[i]
			}
		}
	}

	if worldDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: realmforge [--version] [--plain] [--script <file>] [--trace] [--serve] [--addr <host:port>] [--balance <file>] [--timescale <duration>] [--seed <n>] <world_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua world content.
	defs, err := loader.Load(worldDir)
	if err != nil {
		fatal(fmt.Sprintf("Error loading world: %v", err))
	}

	bal := balance.Default()
	if balanceFile != "" {
		bal, err = balance.Load(balanceFile)
		if err != nil {
			fatal(fmt.Sprintf("Error loading balance: %v", err))
		}
	}

	eng := engine.New(defs, bal)
	sim := contract.NewSimulated(seed, 150*time.Millisecond)
	bridge := contract.NewBridge(eng, sim, sim, sim, sim)

	// Server mode: HTTP API plus a websocket event feed.
	if serve {
		fmt.Printf("realmforge serving %s on %s\n", defs.World.Name, addr)
		if err := server.New(eng, bridge).Run(addr); err != nil {
			fatal(fmt.Sprintf("Server error: %v", err))
		}
		return
	}

	scheduler := sched.New(eng)
	defer scheduler.Stop()

	session := &cli.Session{
		Engine:    eng,
		Defs:      defs,
		Bridge:    bridge,
		Sched:     scheduler,
		Timescale: timescale,
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatal(fmt.Sprintf("Error opening script: %v", err))
		}
		defer f.Close()
		printBanner(defs.World.Name, defs.World.Version, defs.World.Author)
		c := cli.New(session)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs.World.Name, defs.World.Version, defs.World.Author)
		c := cli.New(session)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(session); err != nil {
		fatal(fmt.Sprintf("Error: %v", err))
	}
}

func printBanner(name, version, author string) {
	line := name
	if version != "" {
		line += " v" + version
	}
	if author != "" {
		line += " by " + author
	}
	fmt.Printf("%s\n\n", line)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
