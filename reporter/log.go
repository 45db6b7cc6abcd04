// Package reporter is an example of the external-collaborator pattern
// caliper itself deliberately stays out of: shipping a Registry's
// snapshots somewhere. It is sample plumbing, not a core module -- caliper
// never imports it.
package reporter

import (
	"fmt"
	"log"
	"strings"

	"github.com/bsm/caliper"
)

// Logger follows the standard log.Logger API.
type Logger interface {
	Println(v ...interface{})
}

// Log walks tree (a subtree returned by Registry.Query, or a single
// metric) and logs each leaf metric's current value or p95 quantile
// snapshot through logger. A nil logger falls back to the log package's
// default logger, matching the reference logreporter.
func Log(prefix string, tree interface{}, logger Logger) {
	var parts []string
	walk(prefix, tree, &parts)

	line := strings.Join(parts, " ")
	if logger != nil {
		logger.Println(line)
	} else {
		log.Println(line)
	}
}

func walk(prefix string, node interface{}, parts *[]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for label, child := range v {
			walk(prefix+"."+label, child, parts)
		}
	case *caliper.Counter:
		*parts = append(*parts, fmt.Sprintf("%s=%d", prefix, v.Count()))
	case *caliper.Gauge:
		if val, ok := v.Value(); ok {
			*parts = append(*parts, fmt.Sprintf("%s=%v", prefix, val))
		}
	case *caliper.Histogram:
		*parts = append(*parts, quantileLine(prefix, v.Snapshot()))
	case *caliper.Timer:
		*parts = append(*parts, quantileLine(prefix, v.Snapshot()))
	case *caliper.Meter:
		*parts = append(*parts, fmt.Sprintf("%s.count=%d %s.rate1=%v", prefix, v.Count(), prefix, v.Rate1()))
	}
}

func quantileLine(prefix string, snap caliper.SnapshotView) string {
	p95, err := snap.GetValue(0.95)
	if err != nil {
		return fmt.Sprintf("%s.p95=NaN", prefix)
	}
	return fmt.Sprintf("%s.p95=%v", prefix, p95)
}
