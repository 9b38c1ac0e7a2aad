// Package flags defines beacon-node specific runtime flags for
// setting important values such as ports, eth1 endpoints, and more.
package flags

import (
	cmdflags "github.com/prysmaticlabs/prysm-broadcast/cmd/flags"
	"github.com/urfave/cli/v2"
)

// broadcastValidation backs BroadcastValidationFlag.
var broadcastValidation string

var (
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8080,
	}
	// HTTPServerHost specifies a HTTP server host for the beacon API.
	HTTPServerHost = &cli.StringFlag{
		Name:  "http-host",
		Usage: "Host on which the HTTP server runs on",
		Value: "127.0.0.1",
	}
	// HTTPServerPort enables a REST server port to be exposed for the beacon API.
	HTTPServerPort = &cli.IntFlag{
		Name:  "http-port",
		Usage: "The port on which the HTTP server runs on",
		Value: 3500,
	}
	// HTTPServerCorsDomain serves CORS requests from these domains on the HTTP server.
	HTTPServerCorsDomain = &cli.StringFlag{
		Name:  "http-cors-domain",
		Usage: "Comma separated list of domains from which to accept cross origin requests",
		Value: "http://localhost:4200,http://localhost:7500,http://127.0.0.1:4200,http://127.0.0.1:7500,http://0.0.0.0:4200,http://0.0.0.0:7500",
	}
	// BroadcastValidationFlag sets the validation level used when a block publication
	// request does not specify one.
	BroadcastValidationFlag = cmdflags.EnumValue{
		Name:        "broadcast-validation",
		Usage:       "Default broadcast validation level of block publication requests.",
		Destination: &broadcastValidation,
		Enum:        []string{"not_required", "gossip", "consensus", "consensus_and_equivocation"},
		Value:       "gossip",
	}.GenericFlag()
	// GenesisTimeFlag sets the genesis time, in unix seconds, of a new database.
	GenesisTimeFlag = &cli.Uint64Flag{
		Name:  "genesis-time",
		Usage: "Genesis time in unix seconds used to initialize an empty database. Defaults to the current time.",
	}
	// NoP2PFlag runs the node without networking. Published blocks are imported but not gossiped.
	NoP2PFlag = &cli.BoolFlag{
		Name:  "no-p2p",
		Usage: "Run without the p2p service. Published blocks are validated and imported but not broadcast.",
	}
	// ImportWorkersFlag sets the number of blocks imported concurrently.
	ImportWorkersFlag = &cli.IntFlag{
		Name:  "import-workers",
		Usage: "Number of blocks imported concurrently. Defaults to the number of CPUs.",
	}
	// ValidatorCountFlag bounds the proposer index of imported blocks.
	ValidatorCountFlag = &cli.Uint64Flag{
		Name:  "validator-count",
		Usage: "Number of active validators. Blocks with a proposer index outside it fail the state transition.",
		Value: 16384,
	}
)
