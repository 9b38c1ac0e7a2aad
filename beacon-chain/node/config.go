package node

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/cmd"
	"github.com/prysmaticlabs/prysm-broadcast/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/urfave/cli/v2"
)

// configureChainConfig selects the chain parameters: the minimal preset when
// requested, then any chain config file on top of the preset it names.
func configureChainConfig(cliCtx *cli.Context) error {
	if cliCtx.Bool(cmd.MinimalConfigFlag.Name) {
		log.WithField("config", "minimal-spec").Info("Using custom chain parameters")
		params.OverrideBeaconConfig(params.MinimalSpecConfig())
	}
	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		chainConfigFileName := cliCtx.String(cmd.ChainConfigFileFlag.Name)
		c, err := params.LoadChainConfigFile(chainConfigFileName)
		if err != nil {
			return errors.Wrap(err, "could not load chain config file")
		}
		log.WithField("config", c.ConfigName).Info("Using chain config file")
		params.OverrideBeaconConfig(c)
	}
	return nil
}

func broadcastValidationLevel(cliCtx *cli.Context) (validation.BroadcastValidationLevel, error) {
	raw := cliCtx.String(flags.BroadcastValidationFlag.Name)
	if raw == "" {
		return validation.Gossip, nil
	}
	return validation.ParseBroadcastValidationLevel(raw)
}

func genesisTime(cliCtx *cli.Context) time.Time {
	if t := cliCtx.Uint64(flags.GenesisTimeFlag.Name); t != 0 {
		return time.Unix(int64(t), 0)
	}
	return time.Now()
}

func apiTimeout(cliCtx *cli.Context) time.Duration {
	return time.Duration(cliCtx.Int(cmd.ApiTimeoutFlag.Name)) * time.Second
}
