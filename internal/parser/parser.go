package parser

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pable/volleystats/internal/model"
)

// seasonFile is the on-disk season descriptor.
type seasonFile struct {
	Season  string        `yaml:"season"`
	Roster  []playerEntry `yaml:"roster"`
	Matches []matchEntry  `yaml:"matches"`
}

type playerEntry struct {
	Name   string `yaml:"name"`
	Gender string `yaml:"gender"`
	Status string `yaml:"status"`
	Jersey int    `yaml:"jersey"`
}

type matchEntry struct {
	Match    int           `yaml:"match"`
	Opponent opponentEntry `yaml:"opponent"`
	Games    []gameEntry   `yaml:"games"`
}

type opponentEntry struct {
	Name string `yaml:"name"`
}

type gameEntry struct {
	Match      int   `yaml:"match"`
	Game       int   `yaml:"game"`
	Lineup     []int `yaml:"lineup"`
	TeamScores []any `yaml:"team_scores"`
	OppoScores []any `yaml:"oppo_scores"`
	Serve      bool  `yaml:"serve"`
	Full       bool  `yaml:"full"`
	Include    *bool `yaml:"include"`
}

// ParseSeason reads the season descriptor at path.
func ParseSeason(path string, markers []string) (*model.SeasonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open season: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read season: %w", err)
	}
	return Parse(data, markers)
}

// Parse decodes a season descriptor. Every lineup and score sequence is
// validated before anything is returned.
func Parse(data []byte, markers []string) (*model.SeasonRecord, error) {
	if len(markers) == 0 {
		markers = model.DefaultMarkers
	}

	var sf seasonFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode season: %w", err)
	}

	rec := &model.SeasonRecord{
		Name:   sf.Season,
		Hash:   fmt.Sprintf("%x", sha256.Sum256(data)),
		Roster: &model.Roster{},
	}
	for _, p := range sf.Roster {
		if rec.Roster.Has(p.Jersey) {
			return nil, fmt.Errorf("roster: jersey %d listed twice", p.Jersey)
		}
		rec.Roster.Add(model.Player{Name: p.Name, Gender: p.Gender, Status: p.Status, Jersey: p.Jersey})
	}
	roster := rec.Roster
	if len(roster.Players) == 0 {
		roster = nil
	}

	seenMatch := make(map[int]bool, len(sf.Matches))
	for mi, me := range sf.Matches {
		number := me.Match
		if number == 0 {
			number = mi + 1
		}
		if seenMatch[number] {
			return nil, fmt.Errorf("match %d listed twice", number)
		}
		seenMatch[number] = true
		mr := model.MatchRecord{
			Number:   number,
			Opponent: model.Opponent{Name: me.Opponent.Name},
		}
		seenGame := make(map[int]bool, len(me.Games))
		for gi, ge := range me.Games {
			g, err := parseGame(ge, number, gi+1, roster, markers)
			if err != nil {
				return nil, fmt.Errorf("match %d game %d: %w", number, gi+1, err)
			}
			if seenGame[g.Game] {
				return nil, fmt.Errorf("match %d: game %d listed twice", number, g.Game)
			}
			seenGame[g.Game] = true
			mr.Games = append(mr.Games, g)
		}
		rec.Matches = append(rec.Matches, mr)
	}
	return rec, nil
}

func parseGame(ge gameEntry, match, index int, roster *model.Roster, markers []string) (model.GameRecord, error) {
	lineup, err := model.NewLineup(ge.Lineup, roster)
	if err != nil {
		return model.GameRecord{}, err
	}
	team, err := model.ParseEvents(ge.TeamScores, markers, "team")
	if err != nil {
		return model.GameRecord{}, err
	}
	opp, err := model.ParseEvents(ge.OppoScores, markers, "opponent")
	if err != nil {
		return model.GameRecord{}, err
	}

	g := model.GameRecord{
		Match:      match,
		Game:       ge.Game,
		Lineup:     lineup,
		TeamScores: team,
		OppoScores: opp,
		ServeStart: ge.Serve,
		Full:       ge.Full,
		Include:    true,
	}
	if ge.Match != 0 && ge.Match != match {
		return model.GameRecord{}, fmt.Errorf("game says match %d, listed under match %d", ge.Match, match)
	}
	if g.Game == 0 {
		g.Game = index
	}
	if ge.Include != nil {
		g.Include = *ge.Include
	}
	return g, nil
}
