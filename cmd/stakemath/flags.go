// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/fixedpoint"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	decimalsFlag = cli.Uint64Flag{
		Name:  "decimals",
		Value: fixedpoint.Decimals,
		Usage: "fractional digits of fixed-point values",
	}
	totalRewardsFlag = cli.StringFlag{Name: "total-rewards", Usage: "rewards of the epoch, in base units"}
	ownerFeesFlag    = cli.StringFlag{Name: "owner-fees", Usage: "fees collected by the pool"}
	totalFeesFlag    = cli.StringFlag{Name: "total-fees", Usage: "fees collected by all pools"}
	ownerStakeFlag   = cli.StringFlag{Name: "owner-stake", Usage: "stake delegated to the pool"}
	totalStakeFlag   = cli.StringFlag{Name: "total-stake", Usage: "stake delegated to all pools"}
	targetFlag       = cli.StringFlag{Name: "target", Usage: "reward to reach"}
	alphaFlag        = cli.StringFlag{
		Name:  "alpha",
		Value: "2/3",
		Usage: "fee weight as numerator/denominator",
	}
	alphaDenominatorFlag = cli.Uint64Flag{
		Name:  "alpha-denominator",
		Value: 3,
		Usage: "alpha is 1/alpha-denominator",
	}
)

func amountFlag(ctx *cli.Context, flag cli.StringFlag) (*uint256.Int, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return nil, errors.Errorf("-%s is required", flag.Name)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "-%s", flag.Name)
	}
	return v, nil
}

func parseFraction(s string) (fixedpoint.Fraction, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		den = "1"
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return fixedpoint.Fraction{}, errors.Wrapf(err, "numerator of %q", s)
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return fixedpoint.Fraction{}, errors.Wrapf(err, "denominator of %q", s)
	}
	return fixedpoint.NewFraction(n, d)
}

func bigArg(ctx *cli.Context, i int, name string) (*big.Int, error) {
	s := ctx.Args().Get(i)
	if s == "" {
		return nil, errors.Errorf("missing <%s>", name)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("<%s>: %q is not an integer", name, s)
	}
	return v, nil
}

func uintArg(ctx *cli.Context, i int, name string) (uint64, error) {
	s := ctx.Args().Get(i)
	if s == "" {
		return 0, errors.Errorf("missing <%s>", name)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "<%s>", name)
	}
	return v, nil
}
