// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the RealmForge engine.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwynn/realmforge/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *Session
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given session. Engine events print as
// they are dispatched, from whichever goroutine dispatched them.
func New(session *Session) *CLI {
	c := &CLI{
		Session: session,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
	session.Engine.Subscribe(func(ev types.Event) {
		c.printLine(FormatEvent(ev))
		if c.Trace {
			c.printSystem(fmt.Sprintf("[trace] %s %v", ev.Type, ev.Data))
		}
	})
	return c
}

// Run starts the game loop. It shows the intro and the player's status,
// then loops: prompt, input, execute, output.
func (c *CLI) Run() {
	if c.Session.Defs != nil && c.Session.Defs.World.Intro != "" {
		c.printLine(c.Session.Defs.World.Intro)
		c.printLine("")
	}
	c.printLines(c.Session.Execute("status"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printLines(c.Session.Execute(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit           Exit game",
		"  /help           Show this help",
		"  /state          Debug: dump the snapshot as JSON",
		"  /trace          Toggle event trace output",
		"",
		"Queries:",
		"  status          Your level, vitals, and tokens",
		"  inventory (i)   What you carry and wear",
		"  quests (q)      Active quests and objectives",
		"  market          Items for sale",
		"  recipes         What you can craft",
		"  regions (map)   The known world",
		"  look (l)        What's in your current region",
		"  guild           Your guild, if any",
		"",
		"Actions:",
		"  move <x> <y> <z>      Walk to a position",
		"  travel <region>       Travel to another region",
		"  fight <monster>       Fight a monster here",
		"  harvest <resource>    Harvest a resource node here",
		"  equip <item> [slot]   Equip a weapon or armor",
		"  use <item>            Drink or eat a consumable",
		"  buy <item>            Buy from the marketplace",
		"  craft <recipe>        Craft from materials",
		"  advance <quest>       Progress a quest objective",
		"  claim <quest>         Claim a completed quest's rewards",
		"  join <guild>          Join a guild",
		"  found <name>          Found your own guild",
		"  contribute <amount>   Donate to the guild treasury",
		"  allocate <stat>       Spend a skill point",
		"  stake <amount>        Stake tokens",
		"",
		"Contract calls:",
		"  seek                  Ask the quest board for work",
		"  delve [seed]          Explore a generated dungeon",
		"  rewards               Claim staking rewards",
		"  mint <item>           Mint an item on chain",
		"",
		"  again (g)             Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	data, err := json.MarshalIndent(c.Session.Engine.State(), "", "  ")
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	c.printLine(string(data))
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
