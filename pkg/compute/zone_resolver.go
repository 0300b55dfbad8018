// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/palladius/gcloud/pkg/constants"
	"go.uber.org/zap"
)

// ZoneForResource finds the zone of a per-zone resource. A zone-qualified
// name wins, then the --zone flag ("global" yields ""), then a search of
// every zone for exactly one resource of that name.
func ZoneForResource(ctx context.Context, svc Service, coll Collection, name, zoneFlag string, failIfNotFound bool, log *zap.Logger) (string, error) {
	if name == "" {
		return "", nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	namer := svc.Namer()
	parts := strings.Split(namer.StripBaseURL(name), "/")
	if len(parts) > 3 && parts[0] == "projects" && parts[2] == "zones" {
		return parts[3], nil
	}

	if zoneFlag == constants.GlobalZoneName {
		return "", nil
	}
	if zoneFlag != "" {
		return zoneFlag, nil
	}

	filter := RegexesToFilterExpression([]string{DenormalizeResourceName(name)}, "eq")
	zones, err := ZoneNames(ctx, svc)
	if err != nil {
		return "", err
	}
	var items []Resource
	for _, zone := range zones {
		// anything but exactly one match is an error, so two is enough
		sub, err := ListAll(ctx, svc, coll, zone, ListOptions{MaxResults: 2, Filter: filter})
		if err != nil {
			return "", err
		}
		items = append(items, sub.Items()...)
	}

	if len(items) == 1 {
		zone := namer.ZoneFromSelfLink(items[0].SelfLink())
		shown := zone
		if shown == "" {
			shown = constants.GlobalZoneName
		}
		log.Info(fmt.Sprintf("Zone for %q detected as %q.", name, shown))
		log.Warn(fmt.Sprintf("Consider passing '--zone=%s' to avoid the unnecessary zone lookup which requires extra API calls.", shown))
		return zone, nil
	}

	if failIfNotFound {
		return "", NewCommandError("Could not determine the zone of '%s'.", name)
	}
	return "", nil
}

// CheckZone fetches a zone, failing if it does not exist, and warns when it
// enters maintenance within two weeks.
func CheckZone(ctx context.Context, svc Service, zone string, now time.Time, log *zap.Logger) (Resource, error) {
	zone = DenormalizeResourceName(zone)
	res, err := svc.Get(ctx, Zones, "", zone)
	if err != nil {
		return nil, err
	}
	if msg := MaintenanceWarning(res, now); msg != "" && log != nil {
		log.Warn(fmt.Sprintf("%s %s.", zone, msg))
	}
	return res, nil
}
