// Command tactician is an interactive terminal client for the Merge Tactics
// draft assistant. It talks to a running server over the HTTP API and keeps
// one session at a time.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	title   = color.New(color.FgHiMagenta, color.Bold)
	header  = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
	cardCol = color.New(color.FgHiWhite)
)

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the Merge Tactics server")
	leader := flag.String("leader", "", "leader for a new game (e.g. Impératrice)")
	mods := flag.String("modifiers", "", "comma-separated modifier tags for a new game")
	flag.Parse()

	c := newClient(*server)
	title.Println("=== Merge Tactics Tactician ===")
	faint.Printf("server: %s\n", *server)

	var modifiers []string
	if *mods != "" {
		modifiers = strings.Split(*mods, ",")
	}
	if out, err := c.newGame(*leader, modifiers); err != nil {
		bad.Printf("could not start a game: %v\n", err)
	} else {
		good.Printf("game started, session %s\n", c.sessionID)
		renderState(out["state"])
	}

	fmt.Println("type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		runCommand(c, fields[0], fields[1:])
	}
}

func runCommand(c *client, cmd string, args []string) {
	var out map[string]any
	var err error

	switch cmd {
	case "help":
		printHelp()
		return

	case "new":
		out, err = c.newGame(strings.Join(args, " "), nil)
		if err == nil {
			good.Printf("game started, session %s\n", c.sessionID)
		}

	case "state":
		out, err = c.gameState()

	case "cards":
		out, err = c.get("/api/cards")
		if err == nil {
			renderCards(out["cards"])
			return
		}

	case "leaders":
		out, err = c.get("/api/leaders")
		if err == nil {
			fmt.Println(formatAny(out["leaders"]))
			return
		}

	case "rec":
		choices := parseChoices(args)
		if len(choices) == 0 {
			bad.Println("usage: rec <card> [level][, <card> [level]...]")
			return
		}
		out, err = c.recommendations(choices)
		if err == nil {
			renderRecommendations(out)
			return
		}

	case "buy":
		out, err = c.command("buy_card", cardPayload(args))
	case "merge":
		out, err = c.command("manual_merge", cardPayload(args))
	case "sell":
		out, err = c.command("sell_card", zonePayload(args))
	case "delete":
		out, err = c.command("delete_card", zonePayload(args))
	case "board":
		out, err = c.command("move_to_board", cardPayload(args))
	case "move":
		if len(args) < 4 {
			bad.Println("usage: move <card> <level> <from> <to>")
			return
		}
		level, _ := strconv.Atoi(args[1])
		out, err = c.command("move_card", map[string]any{
			"card": args[0], "level": level, "from": args[2], "to": args[3],
		})

	case "battle":
		if len(args) == 0 {
			bad.Println("usage: battle <win|loss> [enemy_remaining]")
			return
		}
		remaining := 0
		if len(args) > 1 {
			remaining, _ = strconv.Atoi(args[1])
		}
		out, err = c.command("battle_result", map[string]any{
			"victory": args[0] == "win", "enemy_remaining": remaining,
		})

	case "turn":
		out, err = c.command("advance_turn", nil)

	case "decide":
		if len(args) < 2 {
			bad.Println("usage: decide <decision_id> <yes|no|number|card name> [level]")
			return
		}
		out, err = c.command("resolve_decision", decisionPayload(args))

	default:
		bad.Printf("unknown command %q, type 'help'\n", cmd)
		return
	}

	if err != nil {
		bad.Printf("error: %v\n", err)
		return
	}
	if msg := dig(out, "result", "message"); msg != "" {
		good.Println(msg)
	}
	if state, ok := out["state"]; ok {
		renderState(state)
	}
}

// cardPayload parses "<card name...> [level]". The trailing token is taken
// as the level only when it parses as a number, so multi-word French card
// names work without quoting.
func cardPayload(args []string) map[string]any {
	name, level := splitNameLevel(args)
	return map[string]any{"card": name, "level": level}
}

func zonePayload(args []string) map[string]any {
	zone := "bench"
	if len(args) > 0 {
		last := args[len(args)-1]
		if last == "bench" || last == "board" {
			zone = last
			args = args[:len(args)-1]
		}
	}
	name, level := splitNameLevel(args)
	return map[string]any{"card": name, "level": level, "zone": zone}
}

// parseChoices splits "Chevalier 2, Gobelins" into shop offers. Each
// comma-separated entry is a card name with an optional trailing level.
func parseChoices(args []string) []map[string]any {
	var choices []map[string]any
	for _, entry := range strings.Split(strings.Join(args, " "), ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		name, level := splitNameLevel(fields)
		choices = append(choices, map[string]any{"card": name, "level": level})
	}
	return choices
}

func splitNameLevel(args []string) (string, int) {
	level := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			level = n
			args = args[:len(args)-1]
		}
	}
	return strings.Join(args, " "), level
}

func decisionPayload(args []string) map[string]any {
	payload := map[string]any{"decision_id": args[0]}
	rest := args[1:]
	switch rest[0] {
	case "yes":
		payload["yes"] = true
	case "no":
		payload["yes"] = false
	default:
		if n, err := strconv.Atoi(rest[0]); err == nil && len(rest) == 1 {
			payload["count"] = n
		} else {
			name, level := splitNameLevel(rest)
			payload["card"] = name
			payload["level"] = level
		}
	}
	return payload
}

func printHelp() {
	header.Println("commands:")
	fmt.Println("  new [leader]                 start a fresh game")
	fmt.Println("  state                        show the current game state")
	fmt.Println("  cards                        list the card library")
	fmt.Println("  leaders                      list available leaders")
	fmt.Println("  rec <card> [lvl][, ...]      score a shop offer")
	fmt.Println("  buy <card> [level]           buy a card onto the bench")
	fmt.Println("  merge <card> [level]         merge three bench copies")
	fmt.Println("  sell <card> [level] [zone]   sell a card (half cost back)")
	fmt.Println("  delete <card> [level] [zone] discard a card (cost-1 back)")
	fmt.Println("  board <card> [level]         move a bench card to the board")
	fmt.Println("  move <card> <lvl> <from> <to> move between zones")
	fmt.Println("  battle <win|loss> [remaining] report the round result")
	fmt.Println("  turn                         end the turn")
	fmt.Println("  decide <id> <answer>         answer a pending decision")
	fmt.Println("  quit                         leave")
}
