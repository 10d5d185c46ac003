// Package discovery implements multicast advertise/browse peer discovery
// (spec C11), grounded on malbeclabs-doublezero/mcastrelay's
// net.ListenMulticastUDP + golang.org/x/net/ipv4 listener pattern,
// generalized from raw packet relay to a JSON announce envelope and a
// TTL-expiring peer registry.
package discovery

import (
	"sync"
	"time"
)

// Peer is a known node on the network, per spec.md §3.
type Peer struct {
	InstanceName string
	Attributes   map[string]string
	Addresses    []string
}

// peerEntry is a Peer plus the wall-clock deadline after which it is
// considered gone if no fresher announcement arrives.
type peerEntry struct {
	peer     Peer
	deadline time.Time
}

// registry is the mutex-protected set of currently known peers, owned
// exclusively by an ActiveNode's browse loop for writes; reads via
// Peers are safe from any goroutine.
type registry struct {
	mu    sync.RWMutex
	peers map[string]peerEntry
}

func newRegistry() *registry {
	return &registry{peers: make(map[string]peerEntry)}
}

// upsert records or refreshes peer, valid until now+ttl.
func (r *registry) upsert(peer Peer, now time.Time, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[peer.InstanceName] = peerEntry{peer: peer, deadline: now.Add(ttl)}
}

// expire drops every entry whose deadline has passed as of now.
func (r *registry) expire(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, e := range r.peers {
		if now.After(e.deadline) {
			delete(r.peers, name)
		}
	}
}

// snapshot returns every currently live peer.
func (r *registry) snapshot() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Peer, 0, len(r.peers))
	for _, e := range r.peers {
		out = append(out, e.peer)
	}
	return out
}
