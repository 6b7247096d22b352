// Package network waits for the station to join its network before the
// dashboard starts serving.
package network

import (
	"errors"
	"net"
	"time"

	"github.com/evkuzin/weatherdash/config"
	"github.com/sirupsen/logrus"
)

// ErrAssociationTimeout is returned when no address was obtained within the
// configured timeout or number of attempts.
var ErrAssociationTimeout = errors.New("network association timed out")

// interfaceAddrs is replaced in tests.
var interfaceAddrs = net.InterfaceAddrs

// WaitForAssociation polls the host interfaces until one carries a
// non-loopback IPv4 address and returns it. Unless cfg.WaitForever is set it
// gives up after cfg.Timeout or cfg.MaxAttempts, whichever comes first.
func WaitForAssociation(cfg config.Network, logger *logrus.Logger) (net.IP, error) {
	logger.Infof("Connecting to %s", cfg.SSID)
	deadline := time.Now().Add(cfg.Timeout)
	for attempt := 1; ; attempt++ {
		ip, err := firstAddress()
		if err != nil {
			logger.Debugf("cannot list interface addresses: %v", err)
		}
		if ip != nil {
			logger.Infof("Connected to %s, address %s", cfg.SSID, ip)
			return ip, nil
		}
		if !cfg.WaitForever {
			if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
				break
			}
			if cfg.Timeout > 0 && !time.Now().Add(cfg.PollInterval).Before(deadline) {
				break
			}
		}
		logger.Debugf("waiting for %s (attempt %d)", cfg.SSID, attempt)
		time.Sleep(cfg.PollInterval)
	}
	return nil, ErrAssociationTimeout
}

func firstAddress() (net.IP, error) {
	addrs, err := interfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, nil
}
