// Package inventory parses host list files for relayctl.
//
// A host list has one "<address>:<port>" entry per line. Only the first num
// usable lines are consumed, where num is the relay or node count of the run,
// so the same file can be reused for runs of different sizes. Blank lines are
// skipped and do not count towards num.
//
// Entries are grouped by address so that every process living on one machine
// can be started through a single remote session. The enumeration order
// (address first seen, then port order within the address) defines the global
// index of every node and relay:
//
//	10.0.0.1:9000   -> index 0
//	10.0.0.2:9000   -> index 2
//	10.0.0.1:9001   -> index 1
//
// An Inventory is never modified after it has been built.
package inventory
