package params

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadChainConfigFile loads and unmarshals a chain config file on top of the preset it
// names, defaulting to mainnet. No active configuration is replaced.
func LoadChainConfigFile(chainConfigFileName string) (*BeaconChainConfig, error) {
	yamlFile, err := os.ReadFile(chainConfigFileName) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chain config file")
	}
	return UnmarshalConfig(yamlFile)
}

// UnmarshalConfig parses chain config yaml bytes on top of the preset they name.
func UnmarshalConfig(yamlFile []byte) (*BeaconChainConfig, error) {
	// Default to using mainnet.
	conf := MainnetConfig()
	// To track if config name is defined inside config file.
	hasConfigName := false
	for _, line := range strings.Split(string(yamlFile), "\n") {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
			strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
			strings.HasPrefix(line, "PRESET_BASE: minimal") {
			conf = MinimalSpecConfig()
		}
	}
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, errors.Wrap(err, "failed to parse chain config yaml file")
	}
	if !hasConfigName {
		conf.ConfigName = "devnet"
	}
	log.Debugf("Config file values: %+v", conf)
	return conf, nil
}
