// Package docker maps container IDs found in cgroup paths to container
// names using the Docker Engine API.
package docker

import (
	"context"
	"regexp"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
)

// DefaultHost is the daemon socket used when none is configured.
const DefaultHost = "unix:///var/run/docker.sock"

var containerID = regexp.MustCompile(`[0-9a-f]{64}`)

// ContainerID extracts the full container ID from a cgroup path such as
// "/system.slice/docker-<id>.scope" or "/docker/<id>". It returns "" when
// the path belongs to no container.
func ContainerID(cgroup string) string {
	return containerID.FindString(cgroup)
}

// Resolver lists running containers. A zero Resolver is unavailable.
type Resolver struct {
	list  func(ctx context.Context) (map[string]string, error)
	close func() error
	log   logger.Logger
}

// New connects to the daemon at host (e.g. "unix:///var/run/docker.sock").
// The connection is lazy; Containers reports an unreachable daemon.
func New(host string) (*Resolver, error) {
	if host == "" {
		host = DefaultHost
	}
	cli, err := client.NewClientWithOpts(client.WithHost(host), client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			"Failed to create Docker client for "+host,
			"Check [docker] path in your config.")
	}

	return &Resolver{
		list: func(ctx context.Context) (map[string]string, error) {
			containers, err := cli.ContainerList(ctx, container.ListOptions{})
			if err != nil {
				return nil, err
			}
			names := make(map[string]string, len(containers))
			for _, c := range containers {
				name := ""
				if len(c.Names) > 0 {
					name = strings.TrimPrefix(c.Names[0], "/")
				}
				names[c.ID] = name
			}
			return names, nil
		},
		close: cli.Close,
		log:   logger.Named("docker"),
	}, nil
}

// NewStatic returns a Resolver serving a fixed ID-to-name table.
func NewStatic(names map[string]string) *Resolver {
	return &Resolver{
		list: func(context.Context) (map[string]string, error) { return names, nil },
		log:  logger.Noop(),
	}
}

// Containers returns running container names keyed by full ID.
func (r *Resolver) Containers(ctx context.Context) (map[string]string, error) {
	if r == nil || r.list == nil {
		return nil, errors.New(errors.ErrSource, "Docker is not configured", "")
	}
	names, err := r.list(ctx)
	if err != nil {
		r.log.Debug("container list: %v", err)
		return nil, errors.Wrap(err, "Failed to list Docker containers")
	}
	r.log.Debug("%d running containers", len(names))
	return names, nil
}

// Close releases the client connection.
func (r *Resolver) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}
