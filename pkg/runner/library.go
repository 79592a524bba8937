package runner

import (
	"context"
	"fmt"

	bmclib "github.com/bmc-toolbox/bmclib/v2"
	"github.com/davidallendj/ipmiq/pkg/registry"
	"github.com/jacobweinstock/registrar"
	"github.com/rs/zerolog/log"
)

const IPMI_PORT = 623

// The library execution path is only used for the operations whose client
// library support has proven reliable in the field. Right now that is the
// power-state query; everything sensor-shaped goes through Ipmitool.Run()
// because library sensor readings were unreliable on the Supermicro and
// Inspur boards this was written for.

type powerResult struct {
	state string
	err   error
}

// QueryPowerState() fetches the server's power state through a bmclib
// client constructed for this single call. The blocking client work runs
// on its own goroutine; a panic inside the client never escapes, it is
// converted to an error like any other fault.
func QueryPowerState(ctx context.Context, server registry.ServerRecord, ipmitoolPath string) (string, error) {
	results := make(chan powerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Msgf("power-state query panicked: %v", r)
				results <- powerResult{err: fmt.Errorf("power-state query panicked: %v", r)}
			}
		}()
		state, err := queryPowerState(ctx, server, ipmitoolPath)
		results <- powerResult{state: state, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-results:
		return res.state, res.err
	}
}

func queryPowerState(ctx context.Context, server registry.ServerRecord, ipmitoolPath string) (string, error) {
	clientOpts := []bmclib.Option{
		bmclib.WithIpmitoolPort(fmt.Sprint(IPMI_PORT)),
	}
	if ipmitoolPath != "" {
		clientOpts = append(clientOpts, bmclib.WithIpmitoolPath(ipmitoolPath))
	}
	client := bmclib.NewClient(server.Host, server.Username, server.Password, clientOpts...)

	// restrict the registry to the ipmi driver so bmclib never falls back
	// to redfish or other transports against these BMCs
	ds := registrar.Drivers{}
	ds = append(ds, client.Registry.Using("ipmi")...)
	client.Registry.Drivers = ds

	if err := client.Open(ctx); err != nil {
		return "", fmt.Errorf("failed to open BMC session: %v", err)
	}
	defer client.Close(ctx)

	state, err := client.GetPowerState(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get power state: %v", err)
	}
	if state == "" {
		state = "unknown"
	}
	log.Debug().Str("host", server.Host).Str("state", state).Msg("fetched power state")
	return state, nil
}
