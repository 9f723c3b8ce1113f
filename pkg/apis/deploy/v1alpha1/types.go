package v1alpha1

import (
	"maps"
	"slices"
	"time"
)

// Config is the complete geostack configuration. It is built once at start-up
// from defaults, the config file, the credentials overrides file, environment
// variables and flags, and then passed explicitly to the services.
type Config struct {
	Provider          Provider               `json:"provider"                    mapstructure:"provider"`
	RegistryPath      string                 `json:"registryPath"                mapstructure:"registryPath"`
	VerifyCachedNodes bool                   `json:"verifyCachedNodes,omitempty" mapstructure:"verifyCachedNodes"`
	AWS               AWSSpec                `json:"aws"                         mapstructure:"aws"`
	Hetzner           HetznerSpec            `json:"hetzner"                     mapstructure:"hetzner"`
	Wait              WaitSpec               `json:"wait"                        mapstructure:"wait"`
	SSH               SSHSpec                `json:"ssh"                         mapstructure:"ssh"`
	Repository        RepositorySpec         `json:"repository"                  mapstructure:"repository"`
	Environments      map[string]Environment `json:"environments"                mapstructure:"environments"`
}

// AWSSpec configures the EC2 backend. Empty keys fall back to the SDK's
// default credential chain.
type AWSSpec struct {
	Region          string `json:"region"                    mapstructure:"region"`
	AccessKeyID     string `json:"accessKeyID,omitempty"     mapstructure:"accessKeyID"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" mapstructure:"secretAccessKey"`
	ImageID         string `json:"imageID"                   mapstructure:"imageID"`
	InstanceType    string `json:"instanceType"              mapstructure:"instanceType"`
	KeyName         string `json:"keyName"                   mapstructure:"keyName"`
}

// HetznerSpec configures the Hetzner Cloud backend.
type HetznerSpec struct {
	Token      string `json:"token,omitempty" mapstructure:"token"`
	ServerType string `json:"serverType"      mapstructure:"serverType"`
	Image      string `json:"image"           mapstructure:"image"`
	Location   string `json:"location"        mapstructure:"location"`
	SSHKeyName string `json:"sshKeyName"      mapstructure:"sshKeyName"`
}

// WaitSpec bounds the wait for a new instance to reach the running state.
type WaitSpec struct {
	InitialDelay time.Duration `json:"initialDelay" mapstructure:"initialDelay"`
	Interval     time.Duration `json:"interval"     mapstructure:"interval"`
	Timeout      time.Duration `json:"timeout"      mapstructure:"timeout"`
}

// SSHSpec is the login used for remote nodes.
type SSHSpec struct {
	User    string `json:"user"    mapstructure:"user"`
	KeyPath string `json:"keyPath" mapstructure:"keyPath"`
}

// RepositorySpec locates the application repository deployed to targets.
type RepositorySpec struct {
	// Origin is the URL the repository is cloned from.
	Origin string `json:"origin" mapstructure:"origin"`
	// Repo is the repository (and virtualenv) directory name on the target.
	Repo string `json:"repo" mapstructure:"repo"`
}

// Environment describes one deployment environment selectable by name.
type Environment struct {
	Kind       EnvironmentKind `json:"kind"                 mapstructure:"kind"`
	Node       string          `json:"node,omitempty"       mapstructure:"node"`
	Branch     string          `json:"branch"               mapstructure:"branch"`
	Remote     string          `json:"remote"               mapstructure:"remote"`
	Virtualenv string          `json:"virtualenv,omitempty" mapstructure:"virtualenv"`
	BaseDir    string          `json:"baseDir"              mapstructure:"baseDir"`
	DevMode    bool            `json:"devMode,omitempty"    mapstructure:"devMode"`
}

// Environment returns the named environment.
func (c *Config) Environment(name string) (Environment, bool) {
	env, ok := c.Environments[name]

	return env, ok
}

// EnvironmentNames returns the configured environment names in a stable order.
func (c *Config) EnvironmentNames() []string {
	return slices.Sorted(maps.Keys(c.Environments))
}
