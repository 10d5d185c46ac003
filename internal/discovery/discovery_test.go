package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryExpiry(t *testing.T) {
	r := newRegistry()
	now := time.Unix(1000, 0)
	r.upsert(Peer{InstanceName: "a"}, now, 10*time.Second)

	assert.Len(t, r.snapshot(), 1)

	r.expire(now.Add(20 * time.Second))
	assert.Empty(t, r.snapshot())
}

func TestRegistryUpsertRefreshesDeadline(t *testing.T) {
	r := newRegistry()
	now := time.Unix(1000, 0)
	r.upsert(Peer{InstanceName: "a"}, now, 10*time.Second)
	r.upsert(Peer{InstanceName: "a"}, now.Add(5*time.Second), 10*time.Second)

	r.expire(now.Add(12 * time.Second))
	assert.Len(t, r.snapshot(), 1, "refreshed deadline should survive past the original TTL")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := envelope{
		ServiceType:  ServiceType,
		InstanceName: "bench1",
		Attributes:   map[string]string{"package_name": "bench1", "package_version": "1.0.0"},
		Addresses:    []string{"192.168.1.5"},
	}
	data, err := encodeEnvelope(env)
	require.NoError(t, err)

	decoded, err := decodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, decoded)
}

func TestLifecycleIdleActiveIdle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multicast discovery test in short mode")
	}

	idle := New("node-a", nil, nil)
	active, err := idle.StartDiscovery(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, p := range active.Peers() {
			if p.InstanceName == "node-a" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "a node observes its own announcement via multicast loopback")

	backToIdle := active.StopDiscovery()
	assert.NotNil(t, backToIdle)

	// Idle → Active → Idle is repeatable.
	active2, err := backToIdle.StartDiscovery(context.Background())
	require.NoError(t, err)
	active2.StopDiscovery()
}
