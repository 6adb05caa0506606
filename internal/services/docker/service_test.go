package docker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	executeFunc func(ctx context.Context, name string, args ...string) ([]byte, error)
	calls       [][]string
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.executeFunc != nil {
		return m.executeFunc(ctx, name, args...)
	}
	return []byte(""), nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestDiscoverVolumes_Success(t *testing.T) {
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			if args[0] == "ps" {
				return []byte("dokploy\npostgres\n"), nil
			}
			// docker inspect --format <fmt> <container>
			switch args[len(args)-1] {
			case "dokploy":
				return []byte("dokploy-data\n\n"), nil
			case "postgres":
				return []byte("pg-data\ndokploy-data\n"), nil
			}
			return nil, errors.New("unexpected container")
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	result, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.NoError(t, err)
	assert.Equal(t, []string{"dokploy", "postgres"}, result.Containers)
	assert.Equal(t, []models.VolumeMount{
		{Name: "dokploy-data", HostPath: "/var/lib/docker/volumes/dokploy-data"},
		{Name: "pg-data", HostPath: "/var/lib/docker/volumes/pg-data"},
	}, result.Volumes)
	assert.Equal(t, []string{
		"/var/lib/docker/volumes/dokploy-data",
		"/var/lib/docker/volumes/pg-data",
	}, result.Paths())
}

func TestDiscoverVolumes_SharedVolumeAppearsOnce(t *testing.T) {
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			if args[0] == "ps" {
				return []byte("app-a\napp-b\n"), nil
			}
			return []byte("shared-cache\n"), nil
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	result, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.NoError(t, err)
	require.Len(t, result.Volumes, 1)
	assert.Equal(t, "shared-cache", result.Volumes[0].Name)
}

func TestDiscoverVolumes_SkipsUnnamedMounts(t *testing.T) {
	// The inspect format emits nothing for bind mounts, so only blank lines
	// appear for containers without named volumes.
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			if args[0] == "ps" {
				return []byte("bindmount-only\n"), nil
			}
			return []byte("\n\n"), nil
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	result, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.NoError(t, err)
	assert.Empty(t, result.Volumes)
}

func TestDiscoverVolumes_NoRunningContainers(t *testing.T) {
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte(""), nil
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	result, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.NoError(t, err)
	assert.Empty(t, result.Containers)
	assert.Empty(t, result.Volumes)
	require.Len(t, exec.calls, 1, "no inspect calls without containers")
}

func TestDiscoverVolumes_RuntimeUnavailable(t *testing.T) {
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Cannot connect to the Docker daemon"), errors.New("exit status 1")
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	_, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRuntimeUnavailable)
}

func TestDiscoverVolumes_InspectFails(t *testing.T) {
	exec := &mockExecutor{
		executeFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			if args[0] == "ps" {
				return []byte("dokploy\n"), nil
			}
			return []byte("No such object"), errors.New("exit status 1")
		},
	}

	svc := NewWithExecutor(testLogger(), exec)
	_, err := svc.DiscoverVolumes(context.Background(), "/var/lib/docker/volumes")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRuntimeUnavailable)
	assert.True(t, strings.Contains(err.Error(), "dokploy"))
}
