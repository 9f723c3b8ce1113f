package configmanager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/fsutil"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Timer enables timing output in notifications when provided.
	Timer timer.Timer
	// Silent suppresses all loading notifications when true.
	Silent bool
	// IgnoreConfigFile skips the config and credentials files (flags, env and defaults only).
	IgnoreConfigFile bool
	// SkipValidation skips Validate. Normalization still runs.
	SkipValidation bool
}

// FlagKeys maps command-line flag names to the config keys they override.
//
//nolint:gochecknoglobals // read-only lookup table
var FlagKeys = map[string]string{
	"provider": "provider",
	"registry": "registryPath",
	"verify":   "verifyCachedNodes",
}

// Manager loads v1alpha1.Config.
type Manager struct {
	Viper  *viper.Viper
	Config *v1alpha1.Config
	Writer io.Writer
	// ConfigFile is an explicit config file. Empty searches ./geostack.yaml and ~/.geostack/geostack.yaml.
	ConfigFile string
	// CredentialsFile is an explicit credentials overrides file. Empty means
	// DefaultCredentialsPath, which may be absent.
	CredentialsFile string

	loaded bool
}

// NewManager creates a Manager writing notifications to writer.
func NewManager(writer io.Writer) *Manager {
	if writer == nil {
		writer = io.Discard
	}

	return &Manager{
		Viper:  InitializeViper(),
		Config: v1alpha1.NewConfig(),
		Writer: writer,
	}
}

// BindFlags binds every flag in FlagKeys that flags defines.
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := m.Viper.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	return nil
}

// Load builds the configuration. Priority: defaults < config file <
// credentials file < environment variables < flags. A second call returns
// the config loaded by the first.
func (m *Manager) Load(opts LoadOptions) (*v1alpha1.Config, error) {
	if m.loaded {
		return m.Config, nil
	}

	if !opts.Silent {
		notify.Titlef(m.Writer, "⏳", "Load config...")
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}

		err = m.mergeCredentials(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	config := v1alpha1.NewConfig()

	err := m.Viper.Unmarshal(config, viper.DecodeHook(decodeHook()))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", v1alpha1.ErrInvalidConfiguration, err)
	}

	err = config.Normalize()
	if err != nil {
		return nil, err
	}

	if !opts.SkipValidation {
		err = config.Validate()
		if err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		notify.SuccessWithTimerf(m.Writer, opts.Timer, "config loaded")
	}

	m.Config = config
	m.loaded = true

	return config, nil
}

func (m *Manager) readConfig(silent bool) error {
	if m.ConfigFile != "" {
		path, err := fsutil.ExpandHomePath(m.ConfigFile)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadConfig, err)
		}

		m.Viper.SetConfigFile(path)
	}

	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("%w: %w", ErrReadConfig, err)
		}

		log.Debug("no config file found, using defaults")

		if !silent {
			notify.Activityf(m.Writer, "using default config")
		}

		return nil
	}

	if !silent {
		notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

// mergeCredentials merges the credentials overrides file on top of the
// config file. An explicitly named file must exist.
func (m *Manager) mergeCredentials(silent bool) error {
	explicit := m.CredentialsFile != ""

	path := m.CredentialsFile
	if !explicit {
		path = v1alpha1.DefaultCredentialsPath
	}

	path, err := fsutil.ExpandHomePath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied credentials path
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no credentials file at %s", path)

			return nil
		}

		return fmt.Errorf("%w: credentials: %w", ErrReadConfig, err)
	}

	err = m.Viper.MergeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: credentials %s: %w", ErrReadConfig, path, err)
	}

	if !silent {
		notify.Activityf(m.Writer, "credentials merged from '%s'", path)
	}

	return nil
}
