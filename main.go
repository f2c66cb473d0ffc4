// Package main is the entry point for the csgamestate CLI, which loads CS2
// per-tick player frames and answers positional questions about a match.
package main

import "github.com/pable/go-cs-gamestate/cmd"

func main() {
	cmd.Execute()
}
