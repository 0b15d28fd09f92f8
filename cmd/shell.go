package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/report"
	"github.com/pable/volleystats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
	cWin      = color.New(color.FgGreen)
	cLoss     = color.New(color.FgRed)
)

func resultColor(won bool) *color.Color {
	if won {
		return cWin
	}
	return cLoss
}

var shellCmd = &cobra.Command{
	Use:   "shell <season.yaml>",
	Short: "Start an interactive session over one season",
	Long:  "Load a season once and browse it. Type 'help' for available commands.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShell,
}

func runShell(_ *cobra.Command, args []string) error {
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}
	db, err := storage.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	if err := db.LoadSeason(s); err != nil {
		return fmt.Errorf("load storage: %w", err)
	}

	cGreeting.Printf("volleystats shell: %s\n", s.Name)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("volleystats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			if err := printGameList(db); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "games":
			for _, m := range s.Matches {
				printMatchGames(os.Stdout, m, s)
			}
		case "match":
			shellMatch(s, args)
		case "player":
			shellPlayer(s, args)
		case "season":
			report.PrintSeasonHeader(os.Stdout, s)
			report.PrintStats(os.Stdout, s.Stats(), s.Roster)
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(os.Stdout, db, strings.Join(args, " ")); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list every recorded game"},
		{"games", "scores and serve runs per game"},
		{"match <n>", "full report for one match"},
		{"player <jersey> [...]", "per-slot breakdown for one or more players"},
		{"season", "season totals"},
		{"sql <query>", "query the season tables"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellMatch(s *aggregator.Season, args []string) {
	if len(args) != 1 {
		cError.Fprintln(os.Stderr, "usage: match <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "invalid match number %q\n", args[0])
		return
	}
	m, err := findMatch(s, n)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatch(os.Stdout, m, s.Roster)
}

func shellPlayer(s *aggregator.Season, args []string) {
	if len(args) == 0 {
		cError.Fprintln(os.Stderr, "usage: player <jersey> [<jersey>...]")
		return
	}
	for _, arg := range args {
		jersey, err := strconv.Atoi(arg)
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid jersey %q\n", arg)
			continue
		}
		p, ok := s.Stats().Players[jersey]
		if !ok {
			cWarn.Fprintf(os.Stderr, "no data for jersey %d\n", jersey)
			continue
		}
		report.PrintPlayerBreakdown(os.Stdout, p, s.Roster)
	}
}
