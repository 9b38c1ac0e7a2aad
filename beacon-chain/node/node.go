// Package node is the main service which launches a beacon node and manages
// the lifecycle of all its associated services at runtime, such as p2p, HTTP,
// sync, gracefully closing them if the process ends.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/rpc"
	regularsync "github.com/prysmaticlabs/prysm-broadcast/beacon-chain/sync"
	"github.com/prysmaticlabs/prysm-broadcast/cmd"
	"github.com/prysmaticlabs/prysm-broadcast/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/monitoring/backup"
	"github.com/prysmaticlabs/prysm-broadcast/monitoring/prometheus"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// BeaconNodeDbDirName is the directory of the beacon chain database under the data directory.
const BeaconNodeDbDirName = "beaconchaindata"

// BeaconNode defines a struct that handles the services running a beacon node
// publishing and importing blocks. It handles the lifecycle of the entire
// system and registers services to a service registry.
type BeaconNode struct {
	cliCtx   *cli.Context
	ctx      context.Context
	cancel   context.CancelFunc
	services *runtime.ServiceRegistry
	lock     sync.RWMutex
	stop     chan struct{} // Channel to wait for termination notifications.
	db       db.Database
	closed   bool
}

// New creates a new node instance, sets up configuration options, and registers
// every required service to the node.
func New(cliCtx *cli.Context) (*BeaconNode, error) {
	if err := configureChainConfig(cliCtx); err != nil {
		return nil, err
	}

	parent := cliCtx.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	beacon := &BeaconNode{
		cliCtx:   cliCtx,
		ctx:      ctx,
		cancel:   cancel,
		services: runtime.NewServiceRegistry(),
		stop:     make(chan struct{}),
	}

	if err := beacon.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	for _, register := range []func() error{
		beacon.registerP2P,
		beacon.registerBlockchainService,
		beacon.registerSyncService,
		beacon.registerHTTPService,
	} {
		if err := register(); err != nil {
			beacon.Close()
			return nil, err
		}
	}

	if !cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		if err := beacon.registerPrometheusService(); err != nil {
			beacon.Close()
			return nil, err
		}
	}

	return beacon, nil
}

// Start the BeaconNode and kicks off every registered service.
func (b *BeaconNode) Start() {
	b.lock.Lock()

	log.WithField("datadir", b.db.DatabasePath()).Info("Starting beacon node")

	b.services.StartAll()

	stop := b.stop
	b.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		go b.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the beacon node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	log.Info("Stopping beacon node")
	b.services.StopAll()
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	b.cancel()
	close(b.stop)
}

func (b *BeaconNode) startDB(cliCtx *cli.Context) error {
	baseDir := cliCtx.String(cmd.DataDirFlag.Name)
	if baseDir == "" {
		return errors.New("no data directory is set, use --datadir")
	}
	dbPath := filepath.Join(baseDir, BeaconNodeDbDirName)

	log.WithField("databasePath", dbPath).Info("Checking DB")

	d, err := db.NewDB(b.ctx, dbPath)
	if err != nil {
		return err
	}
	if cliCtx.Bool(cmd.ClearDB.Name) {
		log.Warning("Removing database")
		if err := d.Close(); err != nil {
			return errors.Wrap(err, "could not close db prior to clearing")
		}
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear database")
		}
		d, err = db.NewDB(b.ctx, dbPath)
		if err != nil {
			return errors.Wrap(err, "could not create new database")
		}
	}

	b.db = d
	return nil
}

func (b *BeaconNode) registerP2P() error {
	if b.cliCtx.Bool(flags.NoP2PFlag.Name) {
		log.Warn("Running without p2p: published blocks are not broadcast")
		return nil
	}
	svc, err := p2p.NewService(b.ctx, &p2p.Config{
		StaticPeers: b.cliCtx.StringSlice(cmd.StaticPeers.Name),
		HostAddress: b.cliCtx.String(cmd.P2PIP.Name),
		TCPPort:     uint(b.cliCtx.Int(cmd.P2PTCPPort.Name)),
		MaxPeers:    uint(b.cliCtx.Int(cmd.P2PMaxPeers.Name)),
	})
	if err != nil {
		return err
	}
	return b.services.RegisterService(svc)
}

// fetchP2P returns nil when networking is disabled.
func (b *BeaconNode) fetchP2P() *p2p.Service {
	var p *p2p.Service
	if err := b.services.FetchService(&p); err != nil {
		return nil
	}
	return p
}

func (b *BeaconNode) registerBlockchainService() error {
	chainService, err := blockchain.NewService(b.ctx, &blockchain.Config{
		BeaconDB:       b.db,
		ValidatorCount: b.cliCtx.Uint64(flags.ValidatorCountFlag.Name),
		ImportWorkers:  b.cliCtx.Int(flags.ImportWorkersFlag.Name),
		GenesisTime:    genesisTime(b.cliCtx),
	})
	if err != nil {
		return errors.Wrap(err, "could not register blockchain service")
	}
	return b.services.RegisterService(chainService)
}

func (b *BeaconNode) registerSyncService() error {
	var chainService *blockchain.Service
	if err := b.services.FetchService(&chainService); err != nil {
		return err
	}
	cfg := &regularsync.Config{
		Chain:    chainService,
		BlockDB:  b.db,
		Receiver: chainService,
	}
	if p := b.fetchP2P(); p != nil {
		cfg.P2P = p
	}
	rs, err := regularsync.NewService(b.ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "could not register sync service")
	}
	return b.services.RegisterService(rs)
}

func (b *BeaconNode) registerHTTPService() error {
	var chainService *blockchain.Service
	if err := b.services.FetchService(&chainService); err != nil {
		return err
	}
	var syncService *regularsync.Service
	if err := b.services.FetchService(&syncService); err != nil {
		return err
	}
	level, err := broadcastValidationLevel(b.cliCtx)
	if err != nil {
		return err
	}
	var broadcaster p2p.Broadcaster = &localBroadcaster{}
	if p := b.fetchP2P(); p != nil {
		broadcaster = p
	}
	httpService := rpc.NewService(b.ctx, &rpc.Config{
		Host:                       b.cliCtx.String(flags.HTTPServerHost.Name),
		Port:                       fmt.Sprintf("%d", b.cliCtx.Int(flags.HTTPServerPort.Name)),
		BeaconDB:                   b.db,
		ChainInfoFetcher:           chainService,
		BlockReceiver:              chainService,
		GossipValidator:            syncService,
		Broadcaster:                broadcaster,
		DefaultBroadcastValidation: level,
		APITimeout:                 apiTimeout(b.cliCtx),
		AllowedOrigins:             strings.Split(b.cliCtx.String(flags.HTTPServerCorsDomain.Name), ","),
	})
	return b.services.RegisterService(httpService)
}

func (b *BeaconNode) registerPrometheusService() error {
	var additionalHandlers []prometheus.Handler
	if b.cliCtx.IsSet(cmd.EnableBackupWebhookFlag.Name) {
		additionalHandlers = append(
			additionalHandlers,
			prometheus.Handler{
				Path:    "/db/backup",
				Handler: backup.Handler(b.db, b.cliCtx.String(cmd.BackupWebhookOutputDir.Name)),
			},
		)
	}

	service := prometheus.NewService(
		fmt.Sprintf("%s:%d", b.cliCtx.String(cmd.MonitoringHostFlag.Name), b.cliCtx.Int(flags.MonitoringPortFlag.Name)),
		b.services,
		additionalHandlers...,
	)
	hook := prometheus.NewLogrusCollector()
	logrus.AddHook(hook)
	return b.services.RegisterService(service)
}

// localBroadcaster stands in for the p2p service when networking is disabled.
type localBroadcaster struct{}

func (*localBroadcaster) BroadcastBlock(_ context.Context, b *blocks.SignedBeaconBlock) error {
	if err := blocks.BeaconBlockIsNil(b); err != nil {
		return errors.Wrap(p2p.ErrNilBlock, err.Error())
	}
	log.WithField("slot", b.Block.Slot).Debug("Networking disabled, block not broadcast")
	return nil
}
