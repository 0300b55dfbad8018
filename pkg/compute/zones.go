// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"fmt"
	"time"
)

const twoWeeks = 14 * 24 * time.Hour

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseAPITime parses timestamps as returned by the API. Zone-less values
// are taken as UTC.
func parseAPITime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

// NextMaintenanceStart returns the earliest start of a maintenance window
// that has not already ended, and false when there is none.
func NextMaintenanceStart(zone Resource, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, w := range zone.Maps("maintenanceWindows") {
		if end := w.Field("endTime"); end != "" {
			if t, err := parseAPITime(end); err == nil && t.Before(now) {
				continue
			}
		}
		begin := w.Field("beginTime")
		if begin == "" {
			continue
		}
		t, err := parseAPITime(begin)
		if err != nil {
			continue
		}
		if !found || t.Before(next) {
			next = t
			found = true
		}
	}
	return next, found
}

// MaintenanceWarning describes an upcoming maintenance of zone, or returns
// "" when none starts within two weeks.
func MaintenanceWarning(zone Resource, now time.Time) string {
	next, ok := NextMaintenanceStart(zone, now)
	if !ok {
		return ""
	}
	if next.Before(now) {
		return "is unavailable due to maintenance"
	}
	delta := next.Sub(now)
	days := int(delta / (24 * time.Hour))
	var when string
	switch {
	case delta >= twoWeeks:
		return ""
	case days < 1:
		when = "less than 24 hours"
	case days == 1:
		when = "1 day"
	default:
		when = fmt.Sprintf("%d days", days)
	}
	return "will become unavailable due to maintenance in " + when
}
