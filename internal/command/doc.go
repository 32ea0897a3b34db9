// Package command builds the remote command lines of a benchmark run.
//
// Everything here is a pure function of its inputs: the same host, index,
// experiment and partition table always produce the same Command. Relay and
// node commands are JVM invocations; node commands additionally carry the
// address of the relay that owns the node's index.
//
// Commands of the processes living on one machine are grouped into a Script,
// the body of a single remote shell session:
//
//	cd /srv/bench
//	nohup java ... -DlogFilename=logs/node-0 ... port=9000 ... >/dev/null 2>&1 </dev/null &
//	sleep 0.2
//	nohup java ... -DlogFilename=logs/node-1 ... port=9001 ... >/dev/null 2>&1 </dev/null &
package command
