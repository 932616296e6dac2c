// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakemath evaluates the staking reward math and checks staker config files.
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func newApp() *cli.App {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	app := cli.NewApp()
	app.Name = "stakemath"
	app.Usage = "evaluate fixed-point staking reward math"
	app.Version = fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
	app.Flags = []cli.Flag{verbosityFlag}
	app.Before = func(ctx *cli.Context) error {
		log.Init(os.Stderr, log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name)), false)
		return nil
	}
	app.Commands = []cli.Command{
		nthRootCommand,
		nthRootFixedCommand,
		cobbDouglasCommand,
		cobbDouglasInverseCommand,
		configCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
