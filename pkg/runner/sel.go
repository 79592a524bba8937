package runner

import (
	"context"
	"fmt"

	ipmi "github.com/bougou/go-ipmi"
	"github.com/davidallendj/ipmiq/pkg/registry"
	"github.com/rs/zerolog/log"
)

// QuerySELInfo() fetches the SEL overview record (entry count, free space,
// last add/erase timestamps) through a native lanplus session. Unlike the
// full `sel list` dump this never shells out, so it stays usable on hosts
// without the bundled ipmitool.
func QuerySELInfo(ctx context.Context, server registry.ServerRecord) (string, error) {
	client, err := ipmi.NewClient(server.Host, IPMI_PORT, server.Username, server.Password)
	if err != nil {
		return "", fmt.Errorf("failed to create IPMI client: %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		return "", fmt.Errorf("failed to connect to BMC: %v", err)
	}
	defer client.Close(ctx)

	info, err := client.GetSELInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get SEL info: %v", err)
	}
	log.Debug().Str("host", server.Host).Msg("fetched SEL info")
	return info.Format(), nil
}
