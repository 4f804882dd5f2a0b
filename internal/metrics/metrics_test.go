package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CommandAccepted()
	m.CommandAccepted()
	m.LookupDone("document", ResultFound)
	m.LookupDone("store", ResultMissing)
	m.LookupDone("store", ResultMissing)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commands))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("document", ResultFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues("store", ResultMissing)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Lookups.WithLabelValues("document", ResultFailed)))
}

func TestLoggedIn(t *testing.T) {
	m := New()
	m.LoggedIn()

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.LoginSeconds), 0.0)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.CommandAccepted()
	m.LookupDone("document", ResultFound)

	path := filepath.Join(t.TempDir(), "helper.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "ceiba_helper_commands_total 1")
	assert.Contains(t, text, `ceiba_helper_cookie_lookups_total{result="found",source="document"} 1`)
	assert.Contains(t, text, "ceiba_helper_login_seconds")
}
