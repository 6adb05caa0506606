//go:build integration

package integration

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fgeck/dockmigrate/internal/services/docker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func volumeRoot() string {
	if root := os.Getenv("TEST_VOLUME_ROOT"); root != "" {
		return root
	}
	return "/var/lib/docker/volumes"
}

// Requires a reachable docker daemon.
func TestDiscoverVolumes_Integration(t *testing.T) {
	if os.Getenv("TEST_DOCKER") == "" {
		t.Skip("TEST_DOCKER not set")
	}

	svc := docker.New(testLogger())
	result, err := svc.DiscoverVolumes(context.Background(), volumeRoot())

	require.NoError(t, err)
	for _, v := range result.Volumes {
		assert.True(t, strings.HasPrefix(v.HostPath, volumeRoot()),
			"volume path %s must live under the volume root", v.HostPath)
		assert.NotEmpty(t, v.Name)
	}
}
