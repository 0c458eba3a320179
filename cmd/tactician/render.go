package main

import (
	"fmt"
	"sort"
	"strings"
)

// The server speaks loose JSON; these helpers read it without a type per
// endpoint.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// dig walks nested maps and returns the string at the end of the path.
func dig(m map[string]any, path ...string) string {
	cur := m
	for i, key := range path {
		if i == len(path)-1 {
			return asString(cur[key])
		}
		cur = asMap(cur[key])
		if cur == nil {
			return ""
		}
	}
	return ""
}

func formatCard(v any) string {
	c := asMap(v)
	stars := strings.Repeat("★", asInt(c["level"]))
	return fmt.Sprintf("%s %s (%d élixir, %s)",
		asString(c["name"]), stars, asInt(c["cost"]),
		strings.Join(traitList(c["traits"]), "/"))
}

func traitList(v any) []string {
	var out []string
	for _, t := range asSlice(v) {
		out = append(out, asString(t))
	}
	return out
}

func renderState(v any) {
	state := asMap(v)
	if state == nil {
		return
	}

	header.Printf("--- turn %d ---\n", asInt(state["turn"]))
	fmt.Printf("  elixir: ")
	warn.Printf("%d", asInt(state["elixir"]))
	fmt.Printf("   hp: ")
	hp := asInt(state["hp"])
	if hp <= 3 {
		bad.Printf("%d", hp)
	} else {
		good.Printf("%d", hp)
	}
	fmt.Printf("   board cap: %d\n", asInt(state["max_board_size"]))

	fmt.Println("  board:")
	for _, c := range asSlice(state["board"]) {
		cardCol.Printf("    %s\n", formatCard(c))
	}
	fmt.Println("  bench:")
	for _, c := range asSlice(state["bench"]) {
		faint.Printf("    %s\n", formatCard(c))
	}

	if bonuses := asMap(state["family_bonuses"]); len(bonuses) > 0 {
		traits := make([]string, 0, len(bonuses))
		for t := range bonuses {
			traits = append(traits, t)
		}
		sort.Strings(traits)
		fmt.Print("  active families: ")
		parts := make([]string, 0, len(traits))
		for _, t := range traits {
			parts = append(parts, fmt.Sprintf("%s (tier %d)", t, asInt(bonuses[t])))
		}
		header.Println(strings.Join(parts, ", "))
	}

	if decisions := asSlice(state["decisions"]); len(decisions) > 0 {
		warn.Println("  pending decisions:")
		for _, d := range decisions {
			dm := asMap(d)
			warn.Printf("    [%s] %s (%s)\n", asString(dm["id"]), asString(dm["prompt"]), asString(dm["kind"]))
		}
	}

	if gameOver, _ := state["game_over"].(bool); gameOver {
		bad.Println("  GAME OVER")
	}
}

func renderCards(v any) {
	for _, c := range asSlice(v) {
		fmt.Printf("  %s\n", formatCard(c))
	}
}

func renderRecommendations(out map[string]any) {
	header.Println("recommendations:")
	for i, s := range asSlice(out["scores"]) {
		sm := asMap(s)
		card := asMap(sm["card"])
		total, _ := sm["total"].(float64)
		line := fmt.Sprintf("  %d. %-22s %.2f", i+1, asString(card["name"]), total)
		if aff, _ := sm["affordable"].(bool); !aff {
			faint.Printf("%s (too expensive)\n", line)
		} else {
			fmt.Println(line)
		}
	}
	if best := asMap(out["best"]); best != nil {
		good.Printf("best pick: %s\n", asString(best["name"]))
	} else {
		warn.Println("nothing affordable this turn")
	}
}

// formatAny pretty-prints a generic JSON fragment for plain listings.
func formatAny(v any) string {
	var b strings.Builder
	for _, item := range asSlice(v) {
		m := asMap(item)
		fmt.Fprintf(&b, "  %s %s", asString(m["icon"]), asString(m["name"]))
		if d := asString(m["description"]); d != "" {
			fmt.Fprintf(&b, " - %s", d)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
