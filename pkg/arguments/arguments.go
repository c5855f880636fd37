package arguments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppMetadata :
// Identifies the running instance of the server. Most
// of these values end up in the logs to distinguish
// between instances, the port is used to bind the HTTP
// surface.
//
// The `InstanceID` is generated at startup and changes
// at every restart, so that two instances on the same
// machine can be told apart.
//
// The `Environment` names the configuration the server
// was started with, typically `local`, `staging` or
// `production`.
//
// The `Port` defines where the endpoints are exposed.
// The default value is `3000`.
type AppMetadata struct {
	InstanceID  string `json:"instance_id"`
	Environment string `json:"environment"`
	Port        int    `json:"port"`
}

// Parse :
// Loads the configuration file with the input name and
// merges it with the environment variables, then builds
// the instance metadata from the result. Configuration
// files are looked up in the working directory and in
// `data/config`, without their extension.
//
// A missing configuration file is not recoverable: the
// server has no sensible default for the database it
// should talk to.
//
// The `configFile` defines the name of the file.
//
// Returns the application's properties.
func Parse(configFile string) AppMetadata {
	viper.SetEnvPrefix("ENV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(configFile)
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("could not parse input configuration \"%s\" (err: %v)", configFile, err))
	}

	metadata := AppMetadata{
		InstanceID:  uuid.New().String(),
		Environment: configFile,
		Port:        3000,
	}

	if viper.IsSet("App.Port") {
		metadata.Port = viper.GetInt("App.Port")
	}

	return metadata
}
