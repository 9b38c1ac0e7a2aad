package db

import "github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"

// ReadOnlyDatabase exposes the read methods of the beacon node database.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

// Database defines the full beacon node database.
type Database = iface.Database
