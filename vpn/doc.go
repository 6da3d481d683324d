// Package vpn runs and supervises the OpenVPN client.
//
// A Supervisor goes through four phases:
//
//  1. Initializing: find the TAP adapter, resolve the server address,
//     render config.ovpn and write the credentials file
//  2. Launching: start OpenVPN bound to the adapter
//  3. Running: relay OpenVPN output and keep one ICMP echo probe in flight
//  4. Terminating: kill OpenVPN and wait for it to exit
//
// Output lines from both OpenVPN streams go through an OutputQueue and are
// relayed by the supervision loop, which is the only goroutine writing
// supervisor messages to the log sink.
//
// On Linux the child gets SIGKILL when this process dies; on Windows it is
// placed in a kill-on-close job object.
package vpn
