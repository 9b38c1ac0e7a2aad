// Package beacon defines the beacon API handlers used to publish and look up
// blocks.
package beacon

import (
	"context"
	"time"

	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
)

// Server defines a server implementation of the beacon API block endpoints.
type Server struct {
	// Ctx outlives requests and is used for imports that continue after a response.
	Ctx                        context.Context
	BeaconDB                   iface.ReadOnlyDatabase
	ChainInfoFetcher           blockchain.ChainInfoFetcher
	BlockReceiver              blockchain.BlockReceiver
	GossipValidator            validation.BlockGossipValidator
	Broadcaster                p2p.Broadcaster
	DefaultBroadcastValidation validation.BroadcastValidationLevel
	// Timeout bounds how long a publication request waits for validation and import.
	Timeout time.Duration
}
