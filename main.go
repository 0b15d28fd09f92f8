// Package main is the entry point for the volleystats CLI, which replays
// recorded volleyball sets through the rotation and reports per-player stats.
package main

import "github.com/pable/volleystats/cmd"

func main() {
	cmd.Execute()
}
