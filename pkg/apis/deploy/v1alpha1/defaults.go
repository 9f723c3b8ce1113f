package v1alpha1

import "time"

const (
	// DefaultConfigDir is the per-user directory for geostack files.
	DefaultConfigDir = "~/.geostack"
	// DefaultRegistryPath is the default location of the instance registry.
	DefaultRegistryPath = DefaultConfigDir + "/instances"
	// DefaultCredentialsPath is the default credentials overrides file.
	DefaultCredentialsPath = DefaultConfigDir + "/credentials.yaml"
	// DefaultConfigName is the config file name (without extension) searched for.
	DefaultConfigName = "geostack"

	// DefaultAWSRegion is the EC2 region used when none is configured.
	DefaultAWSRegion = "us-east-1"
	// DefaultAWSInstanceType is the EC2 instance type used when none is configured.
	DefaultAWSInstanceType = "t2.micro"

	// DefaultHetznerServerType is the Hetzner server type used when none is configured.
	DefaultHetznerServerType = "cx22"
	// DefaultHetznerImage is the Hetzner image used when none is configured.
	DefaultHetznerImage = "ubuntu-24.04"
	// DefaultHetznerLocation is the Hetzner location used when none is configured.
	DefaultHetznerLocation = "fsn1"

	// DefaultInitialDelay is waited once after creating an instance, before the first status poll.
	DefaultInitialDelay = 20 * time.Second
	// DefaultPollInterval is the fixed interval between status polls.
	DefaultPollInterval = 10 * time.Second
	// DefaultWaitTimeout bounds polling after the initial delay.
	DefaultWaitTimeout = 10 * time.Minute

	// DefaultSSHUser is the login account on remote nodes.
	DefaultSSHUser = "ubuntu"
	// DefaultBaseDir is where the application is deployed on a target.
	DefaultBaseDir = "/server"
	// DefaultRepo is the repository and virtualenv directory name.
	DefaultRepo = "env.example.com"
	// DefaultRemote is the git remote pulled from.
	DefaultRemote = "origin"

	// LocalEnvironment, StagingEnvironment and ProductionEnvironment name the built-in environments.
	LocalEnvironment      = "local"
	StagingEnvironment    = "staging"
	ProductionEnvironment = "production"
)

// DefaultEnvironments returns the built-in environment table.
func DefaultEnvironments() map[string]Environment {
	return map[string]Environment{
		LocalEnvironment: {
			Kind:       EnvironmentLocal,
			Branch:     "master",
			Remote:     DefaultRemote,
			Virtualenv: DefaultRepo,
			BaseDir:    DefaultBaseDir,
			DevMode:    true,
		},
		StagingEnvironment: {
			Kind:       EnvironmentRemote,
			Node:       "staging-appserver",
			Branch:     "stage",
			Remote:     DefaultRemote,
			Virtualenv: DefaultRepo,
			BaseDir:    DefaultBaseDir,
		},
		ProductionEnvironment: {
			Kind:       EnvironmentRemote,
			Node:       "production-appserver",
			Branch:     "release",
			Remote:     DefaultRemote,
			Virtualenv: DefaultRepo,
			BaseDir:    DefaultBaseDir,
		},
	}
}

// NewConfig returns a Config populated with defaults. Settings without a
// sensible default, such as the AWS image ID or SSH key path, are left empty.
func NewConfig() *Config {
	return &Config{
		Provider:     ProviderAWS,
		RegistryPath: DefaultRegistryPath,
		AWS: AWSSpec{
			Region:       DefaultAWSRegion,
			InstanceType: DefaultAWSInstanceType,
		},
		Hetzner: HetznerSpec{
			ServerType: DefaultHetznerServerType,
			Image:      DefaultHetznerImage,
			Location:   DefaultHetznerLocation,
		},
		Wait: WaitSpec{
			InitialDelay: DefaultInitialDelay,
			Interval:     DefaultPollInterval,
			Timeout:      DefaultWaitTimeout,
		},
		SSH:          SSHSpec{User: DefaultSSHUser},
		Repository:   RepositorySpec{Repo: DefaultRepo},
		Environments: DefaultEnvironments(),
	}
}
