// Package remote runs host scripts through a remote-shell connector.
//
// A session is started as "<ssh|oarsh> <address> <script>" where the script
// is the newline separated body built by the command package. Launch issues
// every session without waiting and hands back a Batch; Batch.Wait is the
// join point. Run is the blocking form used for teardown, with an optional
// concurrency limit.
//
// Failures are reported per host as *ExecutionError and logged; they never
// stop the sessions of other hosts.
package remote
