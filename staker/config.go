// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/staker/stakes"
)

// Config is passed once to New.
type Config struct {
	// LockPeriod is the number of epochs deactivated stake stays timelocked.
	LockPeriod stakes.Epoch `yaml:"lock-period"`
	// Alpha weighs fees against stake in the pool reward.
	Alpha fixedpoint.Fraction `yaml:"alpha"`
	// RewardCacheSize bounds the memoized reward evaluations.
	RewardCacheSize int `yaml:"reward-cache-size"`
	// SnapshotDir is the leveldb directory settled snapshots are saved in.
	// Snapshots are not persisted when empty.
	SnapshotDir string `yaml:"snapshot-dir"`
}

func DefaultConfig() Config {
	return Config{
		LockPeriod:      10,
		Alpha:           fixedpoint.MustFraction(2, 3),
		RewardCacheSize: 1024,
	}
}

func (c Config) Validate() error {
	if err := c.Alpha.ValidateUnit(); err != nil {
		return errors.Wrap(err, "alpha")
	}
	if d := c.Alpha.Reduce().Denominator; d > fixedpoint.MaxAlphaDenominator {
		return errors.Errorf("alpha: denominator %d exceeds %d", d, fixedpoint.MaxAlphaDenominator)
	}
	if c.RewardCacheSize <= 0 {
		return errors.Errorf("reward-cache-size: must be positive, got %d", c.RewardCacheSize)
	}
	return nil
}

// ParseConfig reads a YAML config. Fields left out keep their default values,
// unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	return ParseConfig(data)
}
