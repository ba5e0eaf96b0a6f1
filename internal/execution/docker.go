package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// containerAPI is the subset of the Docker Engine client the runtime uses.
type containerAPI interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error)
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
}

// DockerRuntime executes commands in a fresh container of Image. The first
// element of the command is the engine path inside the image.
type DockerRuntime struct {
	Image string

	once    sync.Once
	api     containerAPI
	initErr error
}

// NewDockerRuntime creates a runtime that connects to the Docker daemon
// described by the environment (DOCKER_HOST etc.) on first use.
func NewDockerRuntime(image string) *DockerRuntime {
	return &DockerRuntime{Image: image}
}

// newDockerRuntimeWithClient is used by tests to inject a fake Docker API.
func newDockerRuntimeWithClient(image string, api containerAPI) *DockerRuntime {
	r := &DockerRuntime{Image: image, api: api}
	r.once.Do(func() {})
	return r
}

// Name returns "docker".
func (r *DockerRuntime) Name() string {
	return "docker"
}

func (r *DockerRuntime) client() (containerAPI, error) {
	r.once.Do(func() {
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			r.initErr = err
			return
		}
		r.api = cli
	})
	return r.api, r.initErr
}

// Run creates, starts and waits for a container, then collects its logs.
// The container is killed when ctx ends and always removed.
func (r *DockerRuntime) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	if len(spec.Command) == 0 {
		return nil, ErrEmptyCommand
	}

	cli, err := r.client()
	if err != nil {
		return nil, fmt.Errorf("%w: docker client: %v", ErrEngineNotFound, err)
	}

	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image: r.Image,
		Cmd:   spec.Command,
		Tty:   false,
	}, &container.HostConfig{Binds: readOnlyBinds(spec.Mounts)}, nil, nil, "")
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: image %s: %v", ErrEngineNotFound, r.Image, err)
		}
		return nil, fmt.Errorf("%w: create container: %v", ErrEngineNotFound, err)
	}
	containerID := resp.ID

	// ctx may already be done here, so cleanup uses its own context.
	defer cli.ContainerRemove(context.Background(), containerID, types.ContainerRemoveOptions{Force: true})

	if err := cli.ContainerStart(ctx, containerID, types.ContainerStartOptions{}); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: start container: %v", ErrEngineNotFound, err)
	}

	var exitCode int
	statusCh, errCh := cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			cli.ContainerKill(context.Background(), containerID, "KILL")
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("wait container: %w", err)
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("wait container: %s", status.Error.Message)
		}
		exitCode = int(status.StatusCode)
	case <-ctx.Done():
		cli.ContainerKill(context.Background(), containerID, "KILL")
		return nil, ctx.Err()
	}

	logs, err := cli.ContainerLogs(ctx, containerID, types.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, fmt.Errorf("container logs: %w", err)
	}
	defer logs.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, logs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("demultiplex logs: %w", err)
	}

	return &RunResult{
		ExitCode: exitCode,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
	}, nil
}

// readOnlyBinds mounts each host directory at the same path inside the
// container so file arguments stay valid.
func readOnlyBinds(dirs []string) []string {
	var binds []string
	seen := make(map[string]bool)
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		binds = append(binds, d+":"+d+":ro")
	}
	return binds
}
