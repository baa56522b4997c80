// Package client implements the interactive text client: a TCP command
// loop against the server's session endpoint, an asynchronous printer for
// responses and pushed ranking updates, and a UDP multicast listener for
// broadcast notices.
package client
