package p2p

// Config for the p2p service. These parameters are set from application level flags
// to initialize the p2p service.
type Config struct {
	StaticPeers []string
	HostAddress string
	TCPPort     uint
	MaxPeers    uint
	// ForkDigest is embedded in every gossip topic name.
	ForkDigest [4]byte
}
