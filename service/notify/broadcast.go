package notify

import (
	"fmt"
	"net"

	"github.com/VictoriaMetrics/metrics"
)

var broadcastsSent = metrics.NewCounter("hotelier_broadcasts_total")

// BroadcastFormat is the wire format of a top-1 change notice: a single
// plain-text line, no framing beyond the datagram itself.
const BroadcastFormat = "[NOTICE] new top-ranked hotel in %s is %s"

// MulticastSink publishes broadcast-worthy events as one UDP datagram each
// to a multicast group. Delivery is fire-and-forget: nobody listening
// means the datagram is silently lost, which is the intended semantics.
type MulticastSink struct {
	conn *net.UDPConn
}

// NewMulticastSink opens a UDP socket targeting the multicast group.
func NewMulticastSink(group string, port int) (*MulticastSink, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", group, port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve multicast group: %w", err)
	}
	if !addr.IP.IsMulticast() {
		return nil, fmt.Errorf("address %s is not a multicast group", addr.IP)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open multicast socket: %w", err)
	}

	return &MulticastSink{conn: conn}, nil
}

// Publish sends the top-1 notice for broadcast-worthy events. Send errors
// are logged and swallowed; a lost datagram is acceptable.
func (s *MulticastSink) Publish(event Event) {
	if !event.TopChanged {
		return
	}

	msg := fmt.Sprintf(BroadcastFormat, event.City, event.NewTop)
	if _, err := s.conn.Write([]byte(msg)); err != nil {
		logger.Error().Err(err).Str("city", event.City).Msg("multicast send failed")
		return
	}
	broadcastsSent.Inc()
}

// Close releases the socket.
func (s *MulticastSink) Close() error {
	return s.conn.Close()
}
