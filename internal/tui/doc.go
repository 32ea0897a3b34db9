// Package tui is the terminal view of a running benchmark.
//
// It shows the lifecycle state with a spinner, the elapsed and remaining time
// of the run window, and the live log. Enter or q ends the run window;
// ctrl+c aborts the run, which still tears the fleet down. The view quits on
// its own once the run returned.
//
// The model never talks to the orchestrator directly: transitions arrive as
// StateChangedMsg, completion as RunFinishedMsg, and the two keys act through
// the EndRun and Abort callbacks of Config.
package tui
