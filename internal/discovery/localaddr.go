package discovery

import "net"

// localAddress asks the OS which local interface it would use to reach a
// non-routable UDP address, without transmitting any packet, per
// spec.md §4.9.
func localAddress() (string, error) {
	conn, err := net.Dial("udp4", "203.0.113.1:1")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	addr := conn.LocalAddr().(*net.UDPAddr)
	return addr.IP.String(), nil
}
