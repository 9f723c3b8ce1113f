package configmanager

import (
	"reflect"
	"strings"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/fsutil"
	"github.com/geostack-dev/geostack/pkg/utils/envvar"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by geostack, e.g.
// GEOSTACK_AWS_ACCESSKEYID for aws.accessKeyID.
const EnvPrefix = "GEOSTACK"

// InitializeViper creates a viper instance with the config search paths,
// environment handling and every default registered.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(v1alpha1.DefaultConfigName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")

	configDir, err := fsutil.ExpandHomePath(v1alpha1.DefaultConfigDir)
	if err == nil {
		viperInstance.AddConfigPath(configDir)
	}

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	setDefaults(viperInstance, v1alpha1.NewConfig())

	return viperInstance
}

// setDefaults registers every leaf key. Viper only consults the environment
// for keys it knows about, so empty settings are registered too.
func setDefaults(v *viper.Viper, config *v1alpha1.Config) {
	defaults := map[string]any{
		"provider":            string(config.Provider),
		"registryPath":        config.RegistryPath,
		"verifyCachedNodes":   config.VerifyCachedNodes,
		"aws.region":          config.AWS.Region,
		"aws.accessKeyID":     config.AWS.AccessKeyID,
		"aws.secretAccessKey": config.AWS.SecretAccessKey,
		"aws.imageID":         config.AWS.ImageID,
		"aws.instanceType":    config.AWS.InstanceType,
		"aws.keyName":         config.AWS.KeyName,
		"hetzner.token":       config.Hetzner.Token,
		"hetzner.serverType":  config.Hetzner.ServerType,
		"hetzner.image":       config.Hetzner.Image,
		"hetzner.location":    config.Hetzner.Location,
		"hetzner.sshKeyName":  config.Hetzner.SSHKeyName,
		"wait.initialDelay":   config.Wait.InitialDelay,
		"wait.interval":       config.Wait.Interval,
		"wait.timeout":        config.Wait.Timeout,
		"ssh.user":            config.SSH.User,
		"ssh.keyPath":         config.SSH.KeyPath,
		"repository.origin":   config.Repository.Origin,
		"repository.repo":     config.Repository.Repo,
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for name, env := range config.Environments {
		prefix := "environments." + name + "."

		v.SetDefault(prefix+"kind", string(env.Kind))
		v.SetDefault(prefix+"node", env.Node)
		v.SetDefault(prefix+"branch", env.Branch)
		v.SetDefault(prefix+"remote", env.Remote)
		v.SetDefault(prefix+"virtualenv", env.Virtualenv)
		v.SetDefault(prefix+"baseDir", env.BaseDir)
		v.SetDefault(prefix+"devMode", env.DevMode)
	}
}

// decodeHook expands ${VAR} placeholders in every string value before the
// usual string to duration and string to slice conversions.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		expandEnvHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func expandEnvHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, _ reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		value, ok := data.(string)
		if !ok {
			return data, nil
		}

		return envvar.Expand(value), nil
	}
}
