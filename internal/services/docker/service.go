// Package docker discovers named volumes mounted into running containers.
// The docker CLI is the contract; its daemon API is not consumed directly.
package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fgeck/dockmigrate/internal/executor"
	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/rs/zerolog"
)

// mountsFormat extracts one volume name per line from a container's mounts,
// skipping anonymous bind mounts (they have no volume name).
const mountsFormat = `{{range .Mounts}}{{if eq .Type "volume"}}{{.Name}}{{"\n"}}{{end}}{{end}}`

// Service defines the interface for volume discovery.
type Service interface {
	DiscoverVolumes(ctx context.Context, volumeRoot string) (*models.DiscoveryResult, error)
}

// Impl implements the docker Service interface.
type Impl struct {
	executor executor.CommandExecutor
	logger   zerolog.Logger
}

// New creates a new docker service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &executor.Default{},
		logger:   logger,
	}
}

// NewWithExecutor creates a docker service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		logger:   logger,
	}
}

// DiscoverVolumes lists all running containers and resolves the named volumes
// they mount to host paths under volumeRoot. Order follows container-list
// order then mount order; a volume shared by several containers appears once.
// An unreachable runtime fails the run rather than producing an empty set.
func (s *Impl) DiscoverVolumes(ctx context.Context, volumeRoot string) (*models.DiscoveryResult, error) {
	containers, err := s.listRunningContainers(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.DiscoveryResult{Containers: containers}
	seen := make(map[string]struct{})

	for _, container := range containers {
		names, err := s.containerVolumeNames(ctx, container)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result.Volumes = append(result.Volumes, models.VolumeMount{
				Name:     name,
				HostPath: filepath.Join(volumeRoot, name),
			})
		}
	}

	s.logger.Info().
		Int("containers", len(result.Containers)).
		Int("volumes", len(result.Volumes)).
		Msg("volume discovery completed")

	return result, nil
}

func (s *Impl) listRunningContainers(ctx context.Context) ([]string, error) {
	output, err := s.executor.Execute(ctx, "docker", "ps", "--format", "{{.Names}}")
	if err != nil {
		return nil, fmt.Errorf("%w: docker ps: %v, output: %s", models.ErrRuntimeUnavailable, err, string(output))
	}

	containers := splitLines(output)
	s.logger.Debug().Strs("containers", containers).Msg("running containers listed")
	return containers, nil
}

func (s *Impl) containerVolumeNames(ctx context.Context, container string) ([]string, error) {
	output, err := s.executor.Execute(ctx, "docker", "inspect", "--format", mountsFormat, container)
	if err != nil {
		return nil, fmt.Errorf("%w: docker inspect %s: %v, output: %s", models.ErrRuntimeUnavailable, container, err, string(output))
	}

	names := splitLines(output)
	s.logger.Debug().Str("container", container).Strs("volumes", names).Msg("container mounts resolved")
	return names, nil
}

func splitLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
