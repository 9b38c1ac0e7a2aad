package node

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/rpc"
	regularsync "github.com/prysmaticlabs/prysm-broadcast/beacon-chain/sync"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/cmd"
	"github.com/prysmaticlabs/prysm-broadcast/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/monitoring/prometheus"
	"github.com/prysmaticlabs/prysm-broadcast/testing/util"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

var nodeFlags = []cli.Flag{
	cmd.DataDirFlag,
	cmd.MinimalConfigFlag,
	cmd.ChainConfigFileFlag,
	cmd.ClearDB,
	cmd.DisableMonitoringFlag,
	cmd.MonitoringHostFlag,
	cmd.EnableBackupWebhookFlag,
	cmd.BackupWebhookOutputDir,
	cmd.ApiTimeoutFlag,
	cmd.StaticPeers,
	cmd.P2PIP,
	cmd.P2PTCPPort,
	cmd.P2PMaxPeers,
	flags.MonitoringPortFlag,
	flags.HTTPServerHost,
	flags.HTTPServerPort,
	flags.HTTPServerCorsDomain,
	flags.BroadcastValidationFlag,
	flags.GenesisTimeFlag,
	flags.NoP2PFlag,
	flags.ImportWorkersFlag,
	flags.ValidatorCountFlag,
}

func testContext(t *testing.T, dataDir string, args map[string]string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range nodeFlags {
		require.NoError(t, f.Apply(set))
	}
	values := map[string]string{
		cmd.DataDirFlag.Name:          dataDir,
		cmd.MonitoringHostFlag.Name:   "127.0.0.1",
		flags.MonitoringPortFlag.Name: "0",
		flags.HTTPServerHost.Name:     "127.0.0.1",
		flags.HTTPServerPort.Name:     "0",
		flags.NoP2PFlag.Name:          "true",
	}
	for k, v := range args {
		values[k] = v
	}
	for k, v := range values {
		require.NoError(t, set.Set(k, v), k)
	}
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestNew_RegistersServices(t *testing.T) {
	hook := logTest.NewGlobal()
	node, err := New(testContext(t, t.TempDir(), nil))
	require.NoError(t, err)

	var chainService *blockchain.Service
	require.NoError(t, node.services.FetchService(&chainService))
	var syncService *regularsync.Service
	require.NoError(t, node.services.FetchService(&syncService))
	var httpService *rpc.Service
	require.NoError(t, node.services.FetchService(&httpService))
	var prometheusService *prometheus.Service
	require.NoError(t, node.services.FetchService(&prometheusService))
	var p2pService *p2p.Service
	require.Error(t, node.services.FetchService(&p2pService))
	assert.Nil(t, node.fetchP2P())

	node.Close()
	node.Close()
	stopping := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "Stopping beacon node" {
			stopping++
		}
	}
	assert.Equal(t, 1, stopping)
	_, open := <-node.stop
	assert.False(t, open)
}

func TestNew_DisableMonitoring(t *testing.T) {
	node, err := New(testContext(t, t.TempDir(), map[string]string{cmd.DisableMonitoringFlag.Name: "true"}))
	require.NoError(t, err)
	defer node.Close()
	var prometheusService *prometheus.Service
	require.Error(t, node.services.FetchService(&prometheusService))
}

func TestNew_ClearDB(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	node, err := New(testContext(t, dir, map[string]string{flags.GenesisTimeFlag.Name: "100"}))
	require.NoError(t, err)
	node.Close()

	// Without clearing, the stored genesis is kept.
	node, err = New(testContext(t, dir, map[string]string{flags.GenesisTimeFlag.Name: "200"}))
	require.NoError(t, err)
	genesis, ok, err := node.db.GenesisTime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(100), genesis)
	node.Close()

	node, err = New(testContext(t, dir, map[string]string{
		flags.GenesisTimeFlag.Name: "200",
		cmd.ClearDB.Name:           "true",
	}))
	require.NoError(t, err)
	defer node.Close()
	genesis, ok, err = node.db.GenesisTime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(200), genesis)
}

func TestNew_NoDataDir(t *testing.T) {
	_, err := New(testContext(t, "", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data directory")
}

func TestConfigureChainConfig(t *testing.T) {
	params.SetupTestConfigCleanup(t)

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("PRESET_BASE: minimal\nCONFIG_NAME: broadcast-devnet\nSECONDS_PER_SLOT: 3\n"), 0600))
	require.NoError(t, configureChainConfig(testContext(t, t.TempDir(), map[string]string{cmd.ChainConfigFileFlag.Name: file})))
	assert.Equal(t, "broadcast-devnet", params.BeaconConfig().ConfigName)
	assert.Equal(t, uint64(3), params.BeaconConfig().SecondsPerSlot)
	assert.Equal(t, params.MinimalSpecConfig().SlotsPerEpoch, params.BeaconConfig().SlotsPerEpoch)

	err := configureChainConfig(testContext(t, t.TempDir(), map[string]string{cmd.ChainConfigFileFlag.Name: file + ".missing"}))
	require.Error(t, err)
}

func TestConfigureChainConfig_Minimal(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	require.NoError(t, configureChainConfig(testContext(t, t.TempDir(), map[string]string{cmd.MinimalConfigFlag.Name: "true"})))
	assert.Equal(t, "minimal", params.BeaconConfig().ConfigName)
}

func TestBroadcastValidationLevel(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, flags.BroadcastValidationFlag.Value.Set("gossip"))
	})
	level, err := broadcastValidationLevel(testContext(t, t.TempDir(), nil))
	require.NoError(t, err)
	assert.Equal(t, validation.Gossip, level)

	level, err = broadcastValidationLevel(testContext(t, t.TempDir(), map[string]string{
		flags.BroadcastValidationFlag.Name: "consensus_and_equivocation",
	}))
	require.NoError(t, err)
	assert.Equal(t, validation.ConsensusAndEquivocation, level)
}

func TestLocalBroadcaster(t *testing.T) {
	b := &localBroadcaster{}
	require.NoError(t, b.BroadcastBlock(context.Background(), util.GenerateBlock(1)))
	require.ErrorIs(t, b.BroadcastBlock(context.Background(), nil), p2p.ErrNilBlock)
}
