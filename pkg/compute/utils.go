// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
)

// MachineTypeOrdering puts cheaper machine families first.
var MachineTypeOrdering = []string{"standard", "highcpu", "highmem"}

var protocolNumbers = map[string]int{
	"ip":   0,
	"icmp": 1,
	"igmp": 2,
	"tcp":  6,
	"udp":  17,
	"gre":  47,
	"esp":  50,
	"ah":   51,
	"sctp": 132,
}

// SimpleName shortens a resource link to its last component, keeping a
// google/ prefix for resources shared from the google project.
func SimpleName(entity string) string {
	parts := strings.Split(entity, "/")
	last := parts[len(parts)-1]
	if strings.Contains(entity, "projects/google/") {
		return "google/" + last
	}
	return last
}

// RegexesToFilterExpression builds a name filter from regular expressions.
// Regexes are split on whitespace since names never contain any. Returns ""
// when there is nothing to filter on.
func RegexesToFilterExpression(regexes []string, op string) string {
	var parts []string
	for _, r := range regexes {
		parts = append(parts, strings.Fields(r)...)
	}
	if len(parts) == 0 {
		return ""
	}
	if op == "" {
		op = "eq"
	}
	return fmt.Sprintf("name %s %s", op, strings.Join(parts, "|"))
}

// ListStrings returns the sorted strings one per line behind prefix.
func ListStrings(items []string, prefix string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	var b strings.Builder
	for _, s := range sorted {
		b.WriteString(prefix)
		b.WriteString(s)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}

// ListErrors is ListStrings over error messages.
func ListErrors(errs []error, prefix string) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return ListStrings(msgs, prefix)
}

// ParseProtocol parses a protocol name or number.
func ParseProtocol(protocol string) (int, error) {
	if n, ok := protocolNumbers[strings.ToLower(protocol)]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(protocol)
	if err != nil {
		return 0, fmt.Errorf("Invalid protocol: %s", protocol)
	}
	return n, nil
}

func parsePort(port string) (int, error) {
	if n, err := strconv.Atoi(port); err == nil {
		return n, nil
	}
	return net.LookupPort("tcp", port)
}

// ReplacePortNames rewrites a port range such as "ssh-http" to numbers.
func ReplacePortNames(portRange string) (string, error) {
	ports := strings.Split(portRange, "-")
	if len(ports) != 1 && len(ports) != 2 {
		return "", fmt.Errorf("Invalid port range: %s", portRange)
	}
	low, err := parsePort(ports[0])
	if err != nil {
		return "", fmt.Errorf("Invalid port range: %s", portRange)
	}
	high, err := parsePort(ports[len(ports)-1])
	if err != nil {
		return "", fmt.Errorf("Invalid port range: %s", portRange)
	}
	if low == high {
		return strconv.Itoa(low), nil
	}
	return fmt.Sprintf("%d-%d", low, high), nil
}

// Singularize naively drops a trailing "s" from a collection name.
func Singularize(s string) string {
	return strings.TrimSuffix(s, "s")
}

// MachineTypeSortScore ranks a machine type name by MachineTypeOrdering.
func MachineTypeSortScore(name string) int {
	for i, family := range MachineTypeOrdering {
		if strings.Contains(name, family) {
			return i
		}
	}
	return len(MachineTypeOrdering)
}
