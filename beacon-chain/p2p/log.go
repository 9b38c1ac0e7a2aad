package p2p

import (
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "p2p")

func logListenAddrs(id peer.ID, addrs []string) {
	for _, addr := range addrs {
		log.WithField(
			"multiAddr",
			addr+"/p2p/"+id.String(),
		).Info("Node started p2p server")
	}
}
