package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceKey(t *testing.T) {
	instance := &ServiceInstance{Name: "gourmet-api", Host: "10.0.0.5", Port: 5000}
	assert.Equal(t, "10.0.0.5:5000", instance.Addr())
	assert.Equal(t, "/services/gourmet-api/10.0.0.5:5000", instanceKey("/services/", instance))
}

func TestParseInstance(t *testing.T) {
	instance, err := parseInstance("gourmet-api", "10.0.0.5:5001")
	require.NoError(t, err)
	assert.Equal(t, &ServiceInstance{Name: "gourmet-api", Host: "10.0.0.5", Port: 5001}, instance)

	for _, bad := range []string{"10.0.0.5", "host:port", ""} {
		_, err := parseInstance("gourmet-api", bad)
		assert.Error(t, err, bad)
	}
}
