package ipmiq

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidallendj/ipmiq/internal/log"
	"github.com/davidallendj/ipmiq/pkg/registry"
	"github.com/davidallendj/ipmiq/pkg/runner"
	"golang.org/x/exp/slices"
)

// Operations is the closed set of query operations the dispatcher
// understands. Anything else gets a usage reply, never a runner call.
var Operations = []string{"power", "sensors", "sensor", "group", "fru", "sel", "chassis"}

var (
	selSubcommands     = []string{"list", "info"}
	chassisSubcommands = []string{"status"}
)

// ToolRunner is the external-tool execution strategy as the dispatcher
// sees it. *runner.Ipmitool satisfies it; tests substitute stubs.
type ToolRunner interface {
	Run(server registry.ServerRecord, argTail []string) runner.Outcome
}

// A Dispatcher routes one parsed (operation, target, detail) tuple to an
// execution strategy and folds whatever comes back into a single reply
// string. The strategy fields are function values so the hosting process
// (or a test) can swap one out without touching the routing.
type Dispatcher struct {
	Registry *registry.Registry
	Tool     ToolRunner
	Power    func(ctx context.Context, server registry.ServerRecord) (string, error)
	SELInfo  func(ctx context.Context, server registry.ServerRecord) (string, error)
	Log      *log.Logger
}

// NewDispatcher() wires a Dispatcher with the default strategies: the
// bundled ipmitool for everything sensor/fru/sel/chassis shaped, the
// bmclib client for power, and the native IPMI client for `sel info`.
func NewDispatcher(reg *registry.Registry, tool *runner.Ipmitool, l *log.Logger) *Dispatcher {
	return &Dispatcher{
		Registry: reg,
		Tool:     tool,
		Power: func(ctx context.Context, server registry.ServerRecord) (string, error) {
			return runner.QueryPowerState(ctx, server, tool.Path)
		},
		SELInfo: runner.QuerySELInfo,
		Log:     l,
	}
}

// Dispatch() is the single entry point for every query operation. It
// always returns exactly one reply string: validation failures, runner
// failures, and even panics in the formatting below are all folded into
// the reply, never propagated to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, target string, detail ...string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Log.Errorf("dispatch of '%s %s' panicked: %v", operation, target, r)
			reply = "operation failed, check the logs"
		}
	}()

	if d.Registry.Len() == 0 {
		return "no servers are configured"
	}

	server, found := d.Registry.Resolve(target)
	if !found {
		return fmt.Sprintf("no server named '%s'\navailable: %s", target, strings.Join(d.Registry.Names(), ", "))
	}

	op := strings.ToLower(operation)
	if !slices.Contains(Operations, op) {
		return fmt.Sprintf("unsupported operation '%s'\navailable operations: %s", op, strings.Join(Operations, ", "))
	}

	arg := ""
	if len(detail) > 0 {
		arg = strings.TrimSpace(detail[0])
	}
	d.Log.Log.Debugf("dispatching '%s %s' to '%s' (%s)", op, arg, server.Name, server.Host)

	switch op {
	case "power":
		state, err := d.Power(ctx, server)
		if err != nil {
			d.Log.Log.Errorf("power-state query for '%s' failed: %v", server.Name, err)
			return fmt.Sprintf("failed to get power state of '%s': %v", server.Name, err)
		}
		return fmt.Sprintf("server '%s' power state is: %s", server.Name, state)
	case "sensors":
		return formatOutcome(server, "sensor list", d.Tool.Run(server, []string{"sensor", "list"}))
	case "sensor":
		if arg == "" {
			return "usage: sensor <target> <sensorName> (e.g. sensor my-server CPU1_Temp)"
		}
		// sensor name goes through as one argv entry; names with spaces
		// must not be re-split by the shell-less exec
		return formatOutcome(server, "sensor get "+arg, d.Tool.Run(server, []string{"sensor", "get", arg}))
	case "group":
		if arg == "" {
			return "usage: group <target> <groupName>"
		}
		return d.runSensorGroup(server, arg)
	case "fru":
		return formatOutcome(server, "fru", d.Tool.Run(server, []string{"fru"}))
	case "sel":
		if !slices.Contains(selSubcommands, arg) {
			return fmt.Sprintf("usage: sel <%s> <target>", strings.Join(selSubcommands, "|"))
		}
		if arg == "info" {
			text, err := d.SELInfo(ctx, server)
			if err != nil {
				d.Log.Log.Errorf("SEL info query for '%s' failed: %v", server.Name, err)
				return fmt.Sprintf("failed to get SEL info of '%s': %v", server.Name, err)
			}
			return fmt.Sprintf("SEL info for '%s':\n```\n%s\n```", server.Name, text)
		}
		return formatOutcome(server, "sel list", d.Tool.Run(server, []string{"sel", "list"}))
	case "chassis":
		if !slices.Contains(chassisSubcommands, arg) {
			return fmt.Sprintf("usage: chassis <%s> <target>", strings.Join(chassisSubcommands, "|"))
		}
		return formatOutcome(server, "chassis status", d.Tool.Run(server, []string{"chassis", "status"}))
	}

	// unreachable while Operations and this switch agree
	return fmt.Sprintf("unsupported operation '%s'", op)
}

// formatOutcome() turns a tool outcome into the caller-visible reply. The
// tool's own output (stdout on success, stderr on failure) is quoted in a
// fenced block; failures state the exit code when there is one.
func formatOutcome(server registry.ServerRecord, desc string, outcome runner.Outcome) string {
	if outcome.Ok {
		return fmt.Sprintf("'ipmitool %s' on '%s' succeeded:\n```\n%s\n```", desc, server.Name, outcome.Output)
	}
	switch outcome.Cause {
	case runner.CauseToolMissing:
		return "error: no bundled ipmitool was found, this operation is unavailable"
	case runner.CauseNonZeroExit:
		return fmt.Sprintf("'ipmitool %s' on '%s' failed (code: %d):\n```\n%s\n```", desc, server.Name, outcome.ExitCode, outcome.Output)
	default:
		return fmt.Sprintf("'ipmitool %s' on '%s' failed:\n```\n%s\n```", desc, server.Name, outcome.Output)
	}
}
