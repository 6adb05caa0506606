package models

// VolumeMount is a named docker volume mounted into a running container.
type VolumeMount struct {
	Name     string
	HostPath string // <volumeRoot>/<name>
}

// DiscoveryResult holds the outcome of a volume discovery pass.
type DiscoveryResult struct {
	Containers []string
	Volumes    []VolumeMount
}

// Paths returns the host paths of all discovered volumes, in discovery order.
func (r *DiscoveryResult) Paths() []string {
	paths := make([]string, len(r.Volumes))
	for i, v := range r.Volumes {
		paths[i] = v.HostPath
	}
	return paths
}
