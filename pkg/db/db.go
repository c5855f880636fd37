package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"minute_empire_server/pkg/background"
	"minute_empire_server/pkg/logger"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// configuration :
// Defines the possible options to define the way this DB
// object should try to connect to the underlying document
// store.
//
// The `uri` references the address at which the store is
// hosted and thus where we should try to connect to it.
// The default value is "mongodb://localhost:27017".
//
// The `name` defines the name of the database. This value
// should be set as we cannot assume anything regarding its
// value in general.
//
// The `timeout` separates two successive connection
// attempts to the store. In case an attempt fails we will
// wait for this amount of time before trying again. This
// time is expressed in seconds.
// The default value is `5` seconds.
type configuration struct {
	uri     string
	name    string
	timeout int
}

// DB :
// Describes a database object providing a wrapper on the
// mongo client. This is used as a convenience way to hide
// part of the driver implementation from the rest of the
// application.
// Compared to the base client it handles a mechanism to
// try connecting to the store until it comes online. It
// also retrieves the parameters to use for the connection
// from the configuration file.
//
// The `client` holds a reference on the driver client.
// This value is not `nil` whenever a connection to the
// store has been successfully established.
//
// The `lock` protects the `client` value from concurrent
// accesses. This is typically useful when the connection
// to the store is lost and we try to establish it again.
//
// The `logger` allows to notify information and errors.
//
// The `config` describes the connection properties to use
// to perform the connection. It is parsed upon building
// the object so that we don't attempt anything in case
// the configuration is not valid.
type DB struct {
	client *mongo.Client
	lock   sync.Mutex
	logger logger.Logger
	config configuration
}

// ErrNotConnected : Indicates that no connection to the document store exists yet.
var ErrNotConnected = fmt.Errorf("Connection to document store is invalid")

// parseConfiguration :
// Attempt to parse the configuration provided to this app
// to extract connection parameters to use for the store.
// It relies on default values in case some values are not
// set and panics if mandatory values cannot be found in
// the configuration.
//
// Returns the built-in configuration object.
func parseConfiguration() configuration {
	config := configuration{
		"mongodb://localhost:27017",
		"",
		5,
	}

	if viper.IsSet("Database.Uri") {
		config.uri = viper.GetString("Database.Uri")
	}
	if viper.IsSet("Database.Name") {
		config.name = viper.GetString("Database.Name")
	}
	if viper.IsSet("Database.Timeout") {
		config.timeout = viper.GetInt("Database.Timeout")
	}

	// Check whether we could find all the mandatory
	// configuration properties.
	if len(config.name) == 0 {
		panic(fmt.Errorf("Invalid DB name fetched from configuration \"%s\"", config.name))
	}
	if config.timeout <= 0 {
		panic(fmt.Errorf("Invalid DB timeout fetched from configuration %d", config.timeout))
	}

	return config
}

// NewDB :
// Performs the creation of a new database object. The
// created object will try to connect to the database
// described in the configuration file until a connection
// is established. Until then, calls to the accessors of
// the collections will fail.
//
// The `log` allows to specify the logging device to use.
//
// Returns the created database object.
func NewDB(log logger.Logger) *DB {
	config := parseConfiguration()

	dbase := DB{
		logger: log,
		config: config,
	}

	// Try to connect to the store.
	dbase.connectAttempt()

	// Keep the connection healthy in case the store
	// goes away and comes back later on.
	watchdog := background.NewProcess(time.Second*time.Duration(config.timeout), log).
		WithModule("db").
		WithOperation(func() (bool, error) {
			dbase.Healthcheck()
			return true, nil
		})
	watchdog.Start()

	return &dbase
}

// connectAttempt :
// Used to try to connect to the store described in the
// configuration file. The client is assigned to the
// internal attribute only if the connection succeeded.
//
// Returns `true` if the attempt succeeded.
func (dbase *DB) connectAttempt() bool {
	config := dbase.config
	dbase.logger.Trace(logger.Info, "db", fmt.Sprintf("Attempting to connect to \"%s\" (db: \"%s\")", config.uri, config.name))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.timeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.uri))
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}

	if err != nil {
		dbase.logger.Trace(logger.Warning, "db", fmt.Sprintf("Failed to connect to DB \"%s\" (err: %v)", config.name, err))
		return false
	}

	dbase.logger.Trace(logger.Info, "db", fmt.Sprintf("Connection to DB \"%s\" succeeded", config.name))

	dbase.lock.Lock()
	func() {
		defer dbase.lock.Unlock()
		dbase.client = client
	}()

	return true
}

// Healthcheck :
// Used to check the health of the connection to the
// store. In case the connection is found not to be
// healthy, a new attempt is scheduled immediately.
func (dbase *DB) Healthcheck() {
	dbase.lock.Lock()
	client := dbase.client
	dbase.lock.Unlock()

	healthy := client != nil
	if healthy {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(dbase.config.timeout)*time.Second)
		defer cancel()

		healthy = client.Ping(ctx, readpref.Primary()) == nil
	}

	if !healthy {
		dbase.connectAttempt()
	}
}

// Collection :
// Gives access to the collection with the specified name
// in the database wrapped by this object.
//
// The `name` defines the name of the collection.
//
// Returns the collection along with any error (typically
// in case the connection has not been established yet).
func (dbase *DB) Collection(name string) (*mongo.Collection, error) {
	dbase.lock.Lock()
	defer dbase.lock.Unlock()

	if dbase.client == nil {
		return nil, ErrNotConnected
	}

	return dbase.client.Database(dbase.config.name).Collection(name), nil
}
