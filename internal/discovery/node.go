package discovery

import (
	"context"
	"log/slog"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

// MulticastGroup is the multicast address printctl nodes announce and
// browse on.
const MulticastGroup = "239.255.77.88"

const (
	announceInterval = TTL / 3
	expireInterval   = TTL / 3
	readTimeout      = 250 * time.Millisecond
	readBufferSize   = 4096
)

// IdleNode is configured but neither advertising nor browsing (spec.md
// §4.9). The zero value is not usable; construct via New.
type IdleNode struct {
	name   string
	attrs  map[string]string
	logger *slog.Logger
}

// New returns an IdleNode advertising as name with the given TXT-style
// attributes.
func New(name string, attrs map[string]string, logger *slog.Logger) *IdleNode {
	if logger == nil {
		logger = slog.Default()
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &IdleNode{name: name, attrs: attrs, logger: logger}
}

// ActiveNode is advertising itself and browsing for peers. Only an
// ActiveNode exposes Peers(); only an IdleNode exposes StartDiscovery.
type ActiveNode struct {
	idle     IdleNode
	registry *registry
	cancel   context.CancelFunc
	done     chan struct{}
}

// StartDiscovery transitions Idle → Active: it begins announcing this
// node on MulticastGroup and browsing for peer announcements.
func (n *IdleNode) StartDiscovery(ctx context.Context) (*ActiveNode, error) {
	runCtx, cancel := context.WithCancel(ctx)

	addr, err := localAddress()
	if err != nil {
		cancel()
		return nil, err
	}

	active := &ActiveNode{
		idle:     *n,
		registry: newRegistry(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	conn, err := openMulticastConn()
	if err != nil {
		cancel()
		return nil, err
	}

	go active.run(runCtx, conn, addr)
	return active, nil
}

// StopDiscovery transitions Active → Idle: it stops announcing this node
// (peers observe it disappear once their TTL lapses) and returns the
// underlying IdleNode so discovery can be restarted later.
func (a *ActiveNode) StopDiscovery() *IdleNode {
	a.cancel()
	<-a.done
	idle := a.idle
	return &idle
}

// Peers returns every currently known, unexpired peer, including this
// node's own advertisement if it is observed via loopback.
func (a *ActiveNode) Peers() []Peer {
	return a.registry.snapshot()
}

func (a *ActiveNode) run(ctx context.Context, conn *net.UDPConn, localAddr string) {
	defer close(a.done)
	defer conn.Close()

	announceTicker := time.NewTicker(announceInterval)
	defer announceTicker.Stop()
	expireTicker := time.NewTicker(expireInterval)
	defer expireTicker.Stop()

	a.announce(conn, localAddr)

	readCh := make(chan envelope, 16)
	go a.readLoop(ctx, conn, readCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-announceTicker.C:
			a.announce(conn, localAddr)
		case <-expireTicker.C:
			a.registry.expire(time.Now())
		case env, ok := <-readCh:
			if !ok {
				return
			}
			a.registry.upsert(Peer{
				InstanceName: env.InstanceName,
				Attributes:   env.Attributes,
				Addresses:    env.Addresses,
			}, time.Now(), TTL)
		}
	}
}

func (a *ActiveNode) announce(conn *net.UDPConn, localAddr string) {
	attrs := map[string]string{}
	for k, v := range a.idle.attrs {
		attrs[k] = v
	}

	payload, err := encodeEnvelope(envelope{
		ServiceType:  ServiceType,
		InstanceName: a.idle.name,
		Attributes:   attrs,
		Addresses:    []string{localAddr},
	})
	if err != nil {
		a.idle.logger.Warn("discovery: encode announce failed", "error", err)
		return
	}

	dst := &net.UDPAddr{IP: net.ParseIP(MulticastGroup), Port: ServicePort}
	if _, err := conn.WriteToUDP(payload, dst); err != nil {
		a.idle.logger.Warn("discovery: announce send failed", "error", err)
	}
}

func (a *ActiveNode) readLoop(ctx context.Context, conn *net.UDPConn, out chan<- envelope) {
	defer close(out)
	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
		env, err := decodeEnvelope(buf[:n])
		if err != nil || env.ServiceType != ServiceType {
			continue
		}
		select {
		case out <- env:
		case <-ctx.Done():
			return
		}
	}
}

func openMulticastConn() (*net.UDPConn, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(MulticastGroup), Port: ServicePort}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: ServicePort})
	if err != nil {
		return nil, err
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(nil, addr); err != nil {
		conn.Close()
		return nil, err
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
