package discovery

import (
	"encoding/json"
	"time"
)

// ServiceType identifies printctl nodes on the shared multicast group
// (spec.md §4.9, §6).
const ServiceType = "_printctl._tcp.local"

// ServicePort is the UDP port that announcements are sent to and received
// on within MulticastGroup.
const ServicePort = 8090

// TTL is the peer expiry window; nodes re-announce every TTL/3.
const TTL = 60 * time.Second

// envelope is the JSON payload sent on the multicast group.
type envelope struct {
	ServiceType  string            `json:"service_type"`
	InstanceName string            `json:"instance_name"`
	Attributes   map[string]string `json:"attributes"`
	Addresses    []string          `json:"addresses"`
}

func encodeEnvelope(e envelope) ([]byte, error) { return json.Marshal(e) }

func decodeEnvelope(data []byte) (envelope, error) {
	var e envelope
	err := json.Unmarshal(data, &e)
	return e, err
}
