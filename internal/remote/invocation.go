package remote

import (
	"fmt"

	"relayctl/internal/config"
)

// JobIDEnv is the environment variable the oarsh connector reads to find the
// scheduler job the target machine belongs to.
const JobIDEnv = "OAR_JOB_ID"

// Invocation is one remote-shell session: the connector program, the target
// machine and the script the remote shell reads.
type Invocation struct {
	Protocol config.Protocol
	Address  string
	Script   string
	// JobID is exported as OAR_JOB_ID when not empty.
	JobID string
}

// Argv is the local command line: "<ssh|oarsh> <address> <script>".
func (i Invocation) Argv() []string {
	return []string{string(i.Protocol), i.Address, i.Script}
}

// Env lists the variables added on top of the inherited environment.
func (i Invocation) Env() []string {
	if i.JobID == "" {
		return nil
	}
	return []string{JobIDEnv + "=" + i.JobID}
}

func (i Invocation) String() string {
	return fmt.Sprintf("%s %s", i.Protocol, i.Address)
}

// ExecutionError is a failed remote session. It never stops the rest of the
// fleet.
type ExecutionError struct {
	Address string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("remote session on %s failed: %v", e.Address, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
