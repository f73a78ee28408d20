// Package cmd implements the ledger-engine CLI application.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands. A main package calls Register() to wire up
// the commander, then calls Execute() on the user-selected command.
func Register(c *subcommands.Commander) {
	c.Register(&runCmd{}, "")
	c.Register(&stressTestCmd{}, "")
}
