package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// osReleasePath locates the os-release file used for package manager
// detection. Variable so tests can point it at a fixture.
var osReleasePath = "/etc/os-release"

// RegistryManager bootstraps the registry:2 container on the push host.
type RegistryManager struct {
	exec   Executor
	logger *zap.Logger
}

// NewRegistryManager creates a RegistryManager with the given dependencies.
func NewRegistryManager(exec Executor, logger *zap.Logger) *RegistryManager {
	return &RegistryManager{exec: exec, logger: logger}
}

// RegistryUpOptions holds the resolved registry up flags.
type RegistryUpOptions struct {
	Port    int
	DataDir string
	Name    string
}

// NewRegistryCmd creates the registry command group.
func NewRegistryCmd(logger *zap.Logger) *cobra.Command {
	return NewRegistryCmdWithManager(NewRegistryManager(execExecutor, logger))
}

// NewRegistryCmdWithManager creates the registry command group with an
// injected manager.
func NewRegistryCmdWithManager(mgr *RegistryManager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the local private registry container",
	}
	cmd.AddCommand(newRegistryUpCmd(mgr))
	return cmd
}

func newRegistryUpCmd(mgr *RegistryManager) *cobra.Command {
	opts := RegistryUpOptions{}
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start the registry container, installing docker if needed",
		Long: `Starts a registry container on this host, backed by a persistent data
directory. When docker is missing it is installed through the host's
package manager. An existing container with the same name is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return mgr.Up(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&opts.Port, "port", DefaultCLIConfig.RegistryPort, "host port to publish the registry on")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", DefaultCLIConfig.RegistryDataDir, "host directory for registry storage")
	cmd.Flags().StringVar(&opts.Name, "name", DefaultCLIConfig.RegistryName, "container name")

	return cmd
}

// Up ensures docker is present, replaces any previous registry container,
// and starts a fresh one publishing opts.Port.
func (m *RegistryManager) Up(opts RegistryUpOptions) error {
	Header("Registry Bootstrap")

	if err := m.ensureDocker(); err != nil {
		return err
	}

	if err := os.MkdirAll(opts.DataDir, 0o750); err != nil {
		wrapped := wrapWithSentinelAndContext(ErrRegistryStartFailed, err,
			fmt.Sprintf("failed to create registry data directory %s", opts.DataDir),
			map[string]any{"dir": opts.DataDir})
		Error(fmt.Sprintf("Failed to create registry data directory %s", opts.DataDir))
		logStructuredError(m.logger, wrapped, "registry data directory creation failed")
		return wrapped
	}

	if err := m.removeExisting(opts.Name); err != nil {
		return err
	}

	if err := m.start(opts); err != nil {
		return err
	}

	Success(fmt.Sprintf("Registry %s is running on port %d (data in %s)", opts.Name, opts.Port, opts.DataDir))
	Info(fmt.Sprintf("Point push at it with: airgapctl push --registry localhost:%d --no-auth", opts.Port))
	return nil
}

// ensureDocker probes for a working docker daemon and installs docker
// through the host's package manager when the probe fails.
func (m *RegistryManager) ensureDocker() error {
	cmd, err := m.exec.Command("docker", []string{"version"})
	if err != nil {
		return err
	}
	if _, err := cmd.Output(); err == nil {
		Step("docker is available")
		return nil
	}

	family, err := m.osFamily()
	if err != nil {
		return err
	}

	var installArgs [][]string
	switch family {
	case "debian":
		installArgs = [][]string{
			{"apt-get", "update"},
			{"apt-get", "install", "-y", "docker.io"},
		}
	case "rhel":
		installArgs = [][]string{
			{"dnf", "install", "-y", "docker"},
		}
	default:
		wrapped := newWithSentinel(ErrUnsupportedOS,
			fmt.Sprintf("unsupported OS family %q; install docker manually and re-run", family))
		Error("Unsupported OS; install docker manually and re-run")
		logStructuredError(m.logger, wrapped, "docker install skipped")
		return wrapped
	}

	stop := DefaultPrinter.SpinnerStart("Installing docker")
	for _, args := range installArgs {
		if err := m.run(args[0], args[1:]); err != nil {
			stop(false, "docker install failed")
			wrapped := wrapWithSentinelAndContext(ErrDockerInstallFailed, err,
				fmt.Sprintf("failed to install docker via %s", args[0]),
				map[string]any{"command": strings.Join(args, " ")})
			logStructuredError(m.logger, wrapped, "docker install failed")
			return wrapped
		}
	}
	stop(true, "docker installed")

	// Best effort; some hosts start the daemon on install.
	if err := m.run("systemctl", []string{"enable", "--now", "docker"}); err != nil {
		Warn("Could not enable the docker service; start it manually if needed")
	}
	return nil
}

// osFamily classifies the host by ID/ID_LIKE from os-release.
func (m *RegistryManager) osFamily() (string, error) {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return "", wrapWithSentinel(ErrUnsupportedOS, err,
			fmt.Sprintf("failed to read %s", osReleasePath))
	}

	ids := make([]string, 0, 4)
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "ID="); ok {
			ids = append(ids, strings.Trim(v, `"`))
		}
		if v, ok := strings.CutPrefix(line, "ID_LIKE="); ok {
			ids = append(ids, strings.Fields(strings.Trim(v, `"`))...)
		}
	}
	for _, id := range ids {
		switch id {
		case "debian", "ubuntu":
			return "debian", nil
		case "rhel", "fedora", "centos", "rocky", "almalinux":
			return "rhel", nil
		}
	}
	return strings.Join(ids, ","), nil
}

// removeExisting removes a previous container with the same name. A missing
// container is not an error.
func (m *RegistryManager) removeExisting(name string) error {
	cmd, err := m.exec.Command("docker", []string{"rm", "-f", name}, NoControlChars())
	if err != nil {
		return err
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		// docker rm fails when the container does not exist, which is the
		// common case on first run.
		if strings.Contains(string(out), "No such container") {
			return nil
		}
		wrapped := wrapWithSentinelAndContext(ErrRegistryRemoveFailed, err,
			fmt.Sprintf("failed to remove previous container %s", name),
			map[string]any{"name": name, "output": lastOutputLine(out)})
		Error(fmt.Sprintf("Failed to remove previous container %s", name))
		logStructuredError(m.logger, wrapped, "registry container removal failed")
		return wrapped
	}
	Step(fmt.Sprintf("Removed previous container %s", name))
	return nil
}

func (m *RegistryManager) start(opts RegistryUpOptions) error {
	args := []string{
		"run", "-d", "--restart=always",
		"--name", opts.Name,
		"-p", fmt.Sprintf("%d:5000", opts.Port),
		"-v", fmt.Sprintf("%s:/var/lib/registry", opts.DataDir),
		DefaultCLIConfig.RegistryImage,
	}
	cmd, err := m.exec.Command("docker", args, NoControlChars())
	if err != nil {
		return err
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		wrapped := wrapWithSentinelAndContext(ErrRegistryStartFailed, err,
			fmt.Sprintf("failed to start registry container %s", opts.Name),
			map[string]any{"name": opts.Name, "output": lastOutputLine(out)})
		Error(fmt.Sprintf("Failed to start registry container %s", opts.Name))
		logStructuredError(m.logger, wrapped, "registry container start failed")
		return wrapped
	}
	return nil
}

func (m *RegistryManager) run(name string, args []string) error {
	cmd, err := m.exec.Command(name, args, NoShellMeta())
	if err != nil {
		return err
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, lastOutputLine(out))
	}
	return nil
}
