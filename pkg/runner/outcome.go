// The runner package implements the two execution strategies used to talk
// to a BMC: shelling out to a bundled ipmitool binary, and in-process
// client library calls. Every strategy invocation is a single attempt with
// no retry; policy beyond that belongs to the caller.
package runner

// FailureCause classifies why a tool invocation failed.
type FailureCause int

const (
	CauseNone FailureCause = iota
	// CauseNonZeroExit means the tool ran to completion with a non-zero
	// exit status; ExitCode holds the status and Output the stderr text.
	CauseNonZeroExit
	// CauseToolMissing means no ipmitool executable was resolved, so no
	// process was ever spawned.
	CauseToolMissing
	// CauseUnexpected covers OS-level spawn or I/O faults.
	CauseUnexpected
)

func (c FailureCause) String() string {
	switch c {
	case CauseNonZeroExit:
		return "non-zero exit"
	case CauseToolMissing:
		return "tool missing"
	case CauseUnexpected:
		return "unexpected fault"
	}
	return "none"
}

// An Outcome is the normalized result of one tool invocation. Exactly one
// of the success/failure shapes applies: Ok with Output set, or !Ok with
// Cause (and ExitCode when the cause is a non-zero exit) set.
type Outcome struct {
	Ok       bool
	Output   string
	Cause    FailureCause
	ExitCode int
}

func Succeeded(output string) Outcome {
	return Outcome{Ok: true, Output: output}
}

func Failed(cause FailureCause, exitCode int, output string) Outcome {
	return Outcome{Cause: cause, ExitCode: exitCode, Output: output}
}
