// Command replay runs a timeline of observations through a debouncer and a
// throttler on a manual clock and prints when each value was emitted.
//
//	replay 'first@0,second@100,third@200'
//	replay --debounce 500ms --until 1s 'a@0,b@400,c@800'
//
// With no timeline it runs a set of canned scenarios.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/billie-coop/settle/internal/logging"
	"github.com/billie-coop/settle/internal/replay"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	flag "github.com/spf13/pflag"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	debounceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	throttleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	debounce := flag.Duration("debounce", 300*time.Millisecond, "debounce delay")
	throttle := flag.Duration("throttle", 300*time.Millisecond, "throttle delay")
	until := flag.Duration("until", 0, "stop the clock at this offset (0 runs to completion)")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := logging.New(os.Stderr, *logLevel, "text")
	if err != nil {
		log.Fatal(err)
	}

	// If we have an argument, replay it
	if flag.NArg() > 0 {
		steps, err := replay.ParseTimeline(strings.Join(flag.Args(), ","))
		if err != nil {
			log.Fatal(err)
		}
		cfg := replay.Config{Debounce: *debounce, Throttle: *throttle, Until: *until, Logger: logger}
		res, err := replay.Run(steps, cfg)
		if err != nil {
			log.Fatal(err)
		}
		printResult(steps, cfg, res)
		return
	}

	// Otherwise, run the canned scenarios
	fmt.Println(headerStyle.Render("settle replay"))
	fmt.Println()

	for i, sc := range replay.Scenarios() {
		fmt.Printf("Scenario %d: %s\n", i+1, sc.Name)

		steps, err := replay.ParseTimeline(sc.Timeline)
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
			continue
		}
		sc.Config.Logger = logger
		res, err := replay.Run(steps, sc.Config)
		if err != nil {
			fmt.Printf("ERROR: %v\n", err)
			continue
		}

		printResult(steps, sc.Config, res)
		fmt.Println()
	}
}

func printResult(steps []replay.Step, cfg replay.Config, res *replay.Result) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf("debounce %s  throttle %s  timeline %s",
		cfg.Debounce, cfg.Throttle, formatSteps(steps))))

	rows := make([][]string, 0, len(res.Emissions))
	for _, e := range res.Emissions {
		rows = append(rows, []string{e.At.String(), e.Policy, fmt.Sprintf("%q", e.Value)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("AT", "POLICY", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Bold(true)
			}
			if col == 1 && row >= 0 && row < len(rows) {
				if rows[row][1] == "debounce" {
					return base.Inherit(debounceStyle)
				}
				return base.Inherit(throttleStyle)
			}
			return base
		})
	fmt.Println(t.String())

	fmt.Printf("debounce: observed %d, emitted %d, dropped %d, rescheduled %d\n",
		res.Debounce.Observed, res.Debounce.Emitted, res.Debounce.Dropped, res.Debounce.Rescheduled)
	fmt.Printf("throttle: observed %d, emitted %d, dropped %d, rescheduled %d\n",
		res.Throttle.Observed, res.Throttle.Emitted, res.Throttle.Dropped, res.Throttle.Rescheduled)
	for _, policy := range []string{"debounce", "throttle"} {
		if res.Pending[policy] {
			fmt.Println(mutedStyle.Render(policy + ": still pending when the clock stopped"))
		}
	}
}

func formatSteps(steps []replay.Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%s@%s", s.Value, s.At)
		if s.Override {
			parts[i] += "/" + s.Delay.String()
		}
	}
	return strings.Join(parts, ",")
}
