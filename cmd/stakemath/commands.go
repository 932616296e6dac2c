// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/staker"
)

var (
	nthRootCommand = cli.Command{
		Name:      "nthroot",
		Usage:     "integer n-th root, rounded down",
		ArgsUsage: "<value> <n>",
		Action:    nthRoot,
	}
	nthRootFixedCommand = cli.Command{
		Name:      "nthroot-fixed",
		Usage:     "n-th root of an integer with fractional digits",
		ArgsUsage: "<value> <n>",
		Flags:     []cli.Flag{decimalsFlag},
		Action:    nthRootFixed,
	}
	cobbDouglasCommand = cli.Command{
		Name:   "cobb-douglas",
		Usage:  "pool reward for the given fees and stake",
		Flags:  []cli.Flag{totalRewardsFlag, ownerFeesFlag, totalFeesFlag, ownerStakeFlag, totalStakeFlag, alphaFlag},
		Action: cobbDouglas,
	}
	cobbDouglasInverseCommand = cli.Command{
		Name:   "cobb-douglas-inverse",
		Usage:  "smallest stake reaching the target reward, alpha = 1/alpha-denominator",
		Flags:  []cli.Flag{targetFlag, totalRewardsFlag, ownerFeesFlag, totalFeesFlag, totalStakeFlag, alphaDenominatorFlag},
		Action: cobbDouglasInverse,
	}
	configCommand = cli.Command{
		Name:      "config",
		Usage:     "validate a staker config file and print the effective values",
		ArgsUsage: "[<file>]",
		Action:    checkConfig,
	}
)

func nthRoot(ctx *cli.Context) error {
	value, err := bigArg(ctx, 0, "value")
	if err != nil {
		return err
	}
	n, err := uintArg(ctx, 1, "n")
	if err != nil {
		return err
	}
	root, err := fixedpoint.NthRoot(value, n)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, root)
	return nil
}

// the root is printed with decimals fractional digits
func nthRootFixed(ctx *cli.Context) error {
	decimals := ctx.Uint64(decimalsFlag.Name)
	value, err := bigArg(ctx, 0, "value")
	if err != nil {
		return err
	}
	n, err := uintArg(ctx, 1, "n")
	if err != nil {
		return err
	}
	root, err := fixedpoint.NthRootFixedPoint(value, n, decimals)
	if err != nil {
		return err
	}
	log.Debug("fixed-point root", "value", value, "n", n, "decimals", decimals, "raw", root)
	fmt.Fprintln(ctx.App.Writer, fixedpoint.FormatFixedPoint(root, decimals))
	return nil
}

func cobbDouglas(ctx *cli.Context) error {
	alpha, err := parseFraction(ctx.String(alphaFlag.Name))
	if err != nil {
		return errors.Wrap(err, "-alpha")
	}
	var values [5]*uint256.Int
	for i, f := range []cli.StringFlag{totalRewardsFlag, ownerFeesFlag, totalFeesFlag, ownerStakeFlag, totalStakeFlag} {
		v, err := amountFlag(ctx, f)
		if err != nil {
			return err
		}
		values[i] = v
	}
	reward, err := fixedpoint.CobbDouglas(values[0], values[1], values[2], values[3], values[4], alpha.Numerator, alpha.Denominator)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, reward.Dec())
	return nil
}

func cobbDouglasInverse(ctx *cli.Context) error {
	var values [4]*uint256.Int
	for i, f := range []cli.StringFlag{targetFlag, totalRewardsFlag, ownerFeesFlag, totalFeesFlag} {
		v, err := amountFlag(ctx, f)
		if err != nil {
			return err
		}
		values[i] = v
	}
	totalStake, err := amountFlag(ctx, totalStakeFlag)
	if err != nil {
		return err
	}
	stake, err := fixedpoint.CobbDouglasSimplifiedInverse(values[0], values[1], values[2], values[3], totalStake, ctx.Uint64(alphaDenominatorFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, stake.Dec())
	return nil
}

func checkConfig(ctx *cli.Context) error {
	cfg := staker.DefaultConfig()
	if path := ctx.Args().First(); path != "" {
		var err error
		if cfg, err = staker.LoadConfig(path); err != nil {
			return err
		}
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, string(out))
	return nil
}
