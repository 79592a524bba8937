package ipmiq

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cznic/mathutil"
	"github.com/davidallendj/ipmiq/pkg/registry"
)

// Groups are operator-curated and small, so the worker cap mostly guards
// against a copy-pasted group listing an entire sensor repository.
const maxGroupWorkers = 8

// runSensorGroup() fans one group query out into a `sensor get` tool
// invocation per sensor and joins the per-sensor replies back together in
// the order the group lists them, not completion order. A failing sensor
// contributes its failure block to the reply; it never aborts the rest of
// the group.
func (d *Dispatcher) runSensorGroup(server registry.ServerRecord, groupName string) string {
	sensors, found := server.Group(groupName)
	if !found {
		if groups := server.GroupNames(); len(groups) > 0 {
			return fmt.Sprintf("no sensor group '%s' on server '%s'\navailable groups: %s",
				groupName, server.Name, strings.Join(groups, ", "))
		}
		return fmt.Sprintf("no sensor group '%s' on server '%s' (no groups are defined)", groupName, server.Name)
	}

	type job struct {
		idx    int
		sensor string
	}
	var (
		workers = mathutil.Clamp(len(sensors), 1, maxGroupWorkers)
		results = make([]string, len(sensors))
		jobs    = make(chan job)
		wg      sync.WaitGroup
	)

	d.Log.Log.Debugf("querying sensor group '%s' on '%s' (%d sensors, %d workers)",
		groupName, server.Name, len(sensors), workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcome := d.Tool.Run(server, []string{"sensor", "get", j.sensor})
				results[j.idx] = formatOutcome(server, "sensor get "+j.sensor, outcome)
			}
		}()
	}
	for i, sensor := range sensors {
		jobs <- job{idx: i, sensor: sensor}
	}
	close(jobs)
	wg.Wait()

	return fmt.Sprintf("sensor group '%s' on '%s':\n%s", groupName, server.Name, strings.Join(results, "\n"))
}
