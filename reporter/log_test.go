package reporter_test

import (
	"strings"
	"testing"

	"github.com/bsm/caliper"
	"github.com/bsm/caliper/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Println(v ...interface{}) {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		if s, ok := x.(string); ok {
			parts = append(parts, s)
		}
	}
	l.lines = append(l.lines, strings.Join(parts, " "))
}

func TestLogReportsCounter(t *testing.T) {
	c := caliper.NewCounter()
	c.Inc(42)

	logger := &recordingLogger{}
	reporter.Log("app", c, logger)

	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "app=42")
}

func TestLogWalksSubtree(t *testing.T) {
	registry := caliper.NewRegistry()
	c := caliper.NewCounter()
	c.Inc(7)
	require.NoError(t, registry.Register("svc.requests", c))

	tree, err := registry.Query("svc")
	require.NoError(t, err)

	logger := &recordingLogger{}
	reporter.Log("app", tree, logger)

	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "app.requests=7")
}
