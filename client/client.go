package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"hotelier/service/common"
)

var logger = common.GetLogger("client")

// escapeMarker is the substitute the server uses for newlines embedded in
// a response content. The client turns it back before display.
const escapeMarker = "*\\n*"

// Run connects to the server and drives the interactive loop: stdin lines
// go to the server, every server line (responses and pushed ranking
// updates alike) is printed as it arrives, and a listener on the multicast
// group prints broadcast notices.
func Run(config common.ClientConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	conn, err := net.DialTimeout("tcp", config.ServerAddr, config.DialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", config.ServerAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s, type help for the command list\n", config.ServerAddr)

	// Broadcast notices arrive independently of the session.
	stopNotices, err := listenNotices(config.MulticastAddr, config.UDPPort)
	if err != nil {
		logger.Warn().Err(err).Msg("multicast notices unavailable")
	} else {
		defer stopNotices()
	}

	done := make(chan struct{})
	go printResponses(conn, done)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(conn, line); err != nil {
			break
		}
		if strings.Fields(line)[0] == "exit" {
			break
		}
	}

	<-done
	return scanner.Err()
}

// printResponses prints every server line until the connection ends.
func printResponses(conn io.Reader, done chan<- struct{}) {
	defer close(done)

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		state, content := parseResponse(strings.TrimRight(line, "\n"))
		fmt.Println(content)
		if state == "EXIT" {
			return
		}
	}
}

// parseResponse splits a protocol line into state tag and display
// content, substituting the escape marker back into newlines.
func parseResponse(line string) (state, content string) {
	state, content, found := strings.Cut(line, ",")
	if !found {
		return "", strings.ReplaceAll(line, escapeMarker, "\n")
	}
	return state, strings.ReplaceAll(content, escapeMarker, "\n")
}

// listenNotices joins the multicast group and prints every broadcast
// notice. The returned func leaves the group and stops the listener.
func listenNotices(group string, port int) (func(), error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", group, port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve multicast group: %w", err)
	}
	conn, err := net.ListenMulticastUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to join multicast group: %w", err)
	}

	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			fmt.Println(string(buf[:n]))
		}
	}()

	return func() { conn.Close() }, nil
}
