// Package probe implements the low-level network primitives the
// orchestrator composes per host: TCP-connect reachability with retry,
// ICMP echo by shelling out to the system ping binary, UDP send/recv
// with a configurable receive window, and multi-path HTTP banner
// fetch. Every primitive absorbs its own network errors into a
// negative result; none of them ever return an error for an ordinary
// probe failure. Context cancellation cuts a probe short and also
// yields a negative result; callers check the context themselves.
package probe
