// main - main entry-point to chapa commands through cobra
// individual commands are outlined in ./cmd/
package main

import (
	"github.com/chapa-go/chapa/cmd"
	"github.com/chapa-go/chapa/libs/logging"

	// pull in the transaction commands, setup code is in init
	_ "github.com/chapa-go/chapa/cmd/transaction"
)

var (
	// variables will be overwritten at build time
	version   string
	commit    string
	buildTime string
)

func main() {
	defer func() {
		if logging.Writer != nil {
			logging.Writer.Close()
		}
	}()
	cmd.Execute(version, commit, buildTime)
}
