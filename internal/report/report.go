package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/stats"
)

// Width of the banner lines and court diagrams.
const (
	Width     = 90
	nameWidth = 7
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PlayerLabel renders "(29) Lee", or just the number when the roster has no name.
func PlayerLabel(roster *model.Roster, jersey int) string {
	name := roster.Name(jersey)
	if name == "" {
		return fmt.Sprintf("(%2d)", jersey)
	}
	return fmt.Sprintf("(%2d) %s", jersey, name)
}

// ResultLine renders "W: 25 - 20" or "L: 14 - 25".
func ResultLine(gs *stats.GameStats) string {
	mark := "L"
	if gs.Won {
		mark = "W"
	}
	return fmt.Sprintf("%s: %d - %d", mark, gs.TeamScore, gs.OpponentScore)
}

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("*", Width))
	fmt.Fprintln(w, center(title, Width))
	fmt.Fprintln(w, strings.Repeat("*", Width))
}

// center pads s to width terminal cells, truncating on a rune boundary.
func center(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	sw := runewidth.StringWidth(s)
	left := (width - sw) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-sw-left)
}

// PrintSeasonHeader prints the season banner.
func PrintSeasonHeader(w io.Writer, s *aggregator.Season) {
	title := "SEASON STATS"
	if s.Name != "" {
		title = fmt.Sprintf("%s -- SEASON STATS", strings.ToUpper(s.Name))
	}
	banner(w, title)
	ss := s.Stats()
	hash := s.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\nMatches: %d  |  Games won: %d  |  Games lost: %d  |  Source: %s\n\n",
		len(s.Matches), ss.TeamScore, ss.OpponentScore, hash)
}

// PrintMatchHeader prints the match banner with the opponent.
func PrintMatchHeader(w io.Writer, m *aggregator.Match) {
	banner(w, fmt.Sprintf("MATCH %d STATS -- OPPONENT: %s", m.Number, m.Opponent.Name))
}

// PrintLineups draws the starting lineup of each game as seen from behind
// the baseline, three courts per line.
//
//	---------- NET ----------
//	| LF      CF      RF    |
//	| LB      CB      RB    |
func PrintLineups(w io.Writer, games []*aggregator.Game, roster *model.Roster) {
	for start := 0; start < len(games); start += 3 {
		end := min(start+3, len(games))
		row := games[start:end]

		var net, top, front, mid, back strings.Builder
		for _, g := range row {
			l := g.Record.Lineup
			net.WriteString("   " + strings.Repeat("-", 10) + " NET " + strings.Repeat("-", 10) + "  ")
			top.WriteString("   _" + strings.Repeat(" ", 23) + "_  ")
			front.WriteString("  | " + courtName(roster, l.At(model.SlotLF)) + " " +
				courtName(roster, l.At(model.SlotCF)) + " " + courtName(roster, l.At(model.SlotRF)) + " | ")
			mid.WriteString("  | " + strings.Repeat(" ", 23) + " | ")
			back.WriteString("  |_" + courtName(roster, l.At(model.SlotLB)) + " " +
				courtName(roster, l.At(model.SlotCB)) + " " + courtName(roster, l.At(model.SlotRB)) + "_| ")
		}
		for _, b := range []*strings.Builder{&net, &top, &front, &mid, &back} {
			fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		}
		fmt.Fprintln(w)
	}
}

func courtName(roster *model.Roster, jersey int) string {
	name := roster.Name(jersey)
	if name == "" {
		name = strconv.Itoa(jersey)
	}
	return center(name, nameWidth)
}

// PrintGameScores prints one line per game with its result.
func PrintGameScores(w io.Writer, games []*aggregator.Game) {
	table := newTable(w)
	table.Header("GAME", "RESULT", "SERVED FIRST", "FULL SET", "COUNTED")
	for _, g := range games {
		result := "-"
		if g.Counted() {
			result = ResultLine(g.Stats)
		}
		table.Append(
			strconv.Itoa(g.Record.Game),
			result,
			yesNo(g.Record.ServeStart),
			yesNo(g.Record.Full),
			yesNo(g.Record.Include),
		)
	}
	table.Render()
}

// PrintServeRuns lists every service turn of a game in play order.
func PrintServeRuns(w io.Writer, g *aggregator.Game, roster *model.Roster) {
	if !g.Counted() {
		return
	}
	fmt.Fprintf(w, "Game %d serve runs:\n", g.Record.Game)
	for _, n := range g.Stats.Jerseys() {
		p := g.Stats.Players[n]
		if p.TotalServes == 0 {
			continue
		}
		runs := make([]string, len(p.ServeRuns))
		for i, r := range p.ServeRuns {
			runs[i] = strconv.Itoa(r)
		}
		fmt.Fprintf(w, "  %-16s %s\n", PlayerLabel(roster, n), strings.Join(runs, " "))
	}
}

// PrintServeTable prints serving numbers, best points-per-game first.
func PrintServeTable(w io.Writer, gs *stats.GameStats, roster *model.Roster) {
	table := newTable(w)
	table.Header("NAME", "GAMES", "SERVES", "SERVE PTS", "PTS/SERVE", "PTS/GAME", "BEST RUN")
	for _, p := range gs.Ranked() {
		table.Append(
			PlayerLabel(roster, p.Jersey),
			fmt.Sprintf("%.1f", p.GamesPlayed),
			strconv.Itoa(p.TotalServes),
			strconv.Itoa(p.TotalServePoints),
			fmt.Sprintf("%.2f", p.PointsPerServe),
			fmt.Sprintf("%.2f", p.PointsPerGame),
			strconv.Itoa(p.LongestRun()),
		)
	}
	table.Render()
}

// PrintRotationTable prints plus/minus for each court slot.
func PrintRotationTable(w io.Writer, gs *stats.GameStats, roster *model.Roster) {
	table := newTable(w)
	header := []any{"NAME"}
	for _, s := range model.Slots {
		header = append(header, s.String())
	}
	table.Header(header...)
	for _, p := range gs.Ranked() {
		row := []any{PlayerLabel(roster, p.Jersey)}
		for _, s := range model.Slots {
			row = append(row, plusMinus(*p.Slot(s)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintRowTable prints front-row, back-row and overall plus/minus.
func PrintRowTable(w io.Writer, gs *stats.GameStats, roster *model.Roster) {
	table := newTable(w)
	table.Header("NAME", "FRONT", "BACK", "TOTAL", "NET")
	for _, p := range gs.Ranked() {
		table.Append(
			PlayerLabel(roster, p.Jersey),
			plusMinus(p.FrontRow),
			plusMinus(p.BackRow),
			plusMinus(p.Total),
			fmt.Sprintf("%+d", p.Total.Net()),
		)
	}
	table.Render()
}

// PrintPlayerBreakdown prints one player's slot-by-slot numbers.
func PrintPlayerBreakdown(w io.Writer, p *stats.PlayerStats, roster *model.Roster) {
	fmt.Fprintf(w, "\n%s  |  Games: %.1f  |  Serves: %d  |  Serve pts: %d  |  Pts/serve: %.2f  |  Pts/game: %.2f\n\n",
		PlayerLabel(roster, p.Jersey), p.GamesPlayed, p.TotalServes, p.TotalServePoints, p.PointsPerServe, p.PointsPerGame)

	table := newTable(w)
	table.Header("SLOT", "ROW", "FOR", "AGAINST", "NET")
	for _, s := range model.Slots {
		pm := *p.Slot(s)
		row := "back"
		if s.IsFront() {
			row = "front"
		}
		table.Append(s.String(), row, strconv.Itoa(pm.For), strconv.Itoa(pm.Against), fmt.Sprintf("%+d", pm.Net()))
	}
	table.Append("ALL", "", strconv.Itoa(p.Total.For), strconv.Itoa(p.Total.Against), fmt.Sprintf("%+d", p.Total.Net()))
	table.Render()
}

// PrintStats prints the serve, rotation and row tables for an aggregate.
func PrintStats(w io.Writer, gs *stats.GameStats, roster *model.Roster) {
	fmt.Fprintln(w, "\n--- Serving ---")
	PrintServeTable(w, gs, roster)
	fmt.Fprintln(w, "\n--- Rotation plus/minus ---")
	PrintRotationTable(w, gs, roster)
	fmt.Fprintln(w, "\n--- Front / back row ---")
	PrintRowTable(w, gs, roster)
}

// PrintMatch prints the full match section: banner, lineups, scores, stats.
func PrintMatch(w io.Writer, m *aggregator.Match, roster *model.Roster) {
	PrintMatchHeader(w, m)
	fmt.Fprintln(w)
	PrintLineups(w, m.Games, roster)
	PrintGameScores(w, m.Games)
	fmt.Fprintf(w, "\nMatch result: %s\n", ResultLine(m.Stats()))
	PrintStats(w, m.Stats(), roster)
	fmt.Fprintln(w)
}

// PrintSeason prints every match followed by the season totals.
func PrintSeason(w io.Writer, s *aggregator.Season) {
	PrintSeasonHeader(w, s)
	for _, m := range s.Matches {
		PrintMatch(w, m, s.Roster)
	}
	banner(w, "SEASON TOTALS")
	PrintStats(w, s.Stats(), s.Roster)
}

func plusMinus(pm stats.PlusMinus) string {
	return fmt.Sprintf("+%d/-%d", pm.For, pm.Against)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
