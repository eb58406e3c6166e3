// Package main is the entry point for the ultistats CLI tool, which turns
// Statto CSV exports of ultimate frisbee games into model-ready
// per-player-per-point datasets.
package main

import "github.com/Leo3Lee/ultimate-frisbee-analytics/cmd"

func main() {
	cmd.Execute()
}
