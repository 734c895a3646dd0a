package cache

import (
	"context"
	"strings"

	"github.com/opendesk/support-storage-go/internal/model"
)

// healthCheck round-trips a set/get/delete on the given test key and pulls a
// few server stats from INFO. Shared by both cache stores.
func healthCheck(ctx context.Context, rdb Commander, testKey string) *model.HealthReport {
	fail := func(err error) *model.HealthReport {
		return &model.HealthReport{
			Status:     model.HealthStatusUnhealthy,
			TestPassed: false,
			Error:      err.Error(),
		}
	}

	if err := rdb.Set(ctx, testKey, "ok", 0).Err(); err != nil {
		return fail(err)
	}
	value, err := rdb.Get(ctx, testKey).Result()
	if err != nil {
		return fail(err)
	}
	if err := rdb.Del(ctx, testKey).Err(); err != nil {
		return fail(err)
	}

	info, err := rdb.Info(ctx).Result()
	if err != nil {
		return fail(err)
	}

	usedMemory := infoField(info, "used_memory_human")
	if usedMemory == "" {
		usedMemory = infoField(info, "used_memory")
	}

	return &model.HealthReport{
		Status:           model.HealthStatusHealthy,
		TestPassed:       value == "ok",
		ConnectedClients: infoField(info, "connected_clients"),
		UsedMemory:       usedMemory,
		UptimeSeconds:    infoField(info, "uptime_in_seconds"),
	}
}

// infoField extracts one value from the "key:value" lines of an INFO reply.
func infoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		if value, found := strings.CutPrefix(line, field+":"); found {
			return value
		}
	}
	return ""
}
