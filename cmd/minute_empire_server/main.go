package main

import (
	"context"
	"flag"
	"fmt"

	"minute_empire_server/internal/comm"
	"minute_empire_server/internal/data"
	"minute_empire_server/internal/engine"
	"minute_empire_server/internal/locker"
	"minute_empire_server/internal/routes"
	"minute_empire_server/pkg/arguments"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
	"minute_empire_server/pkg/scheduler"
)

// usage :
// Displays the usage of the server. A configuration file
// is mandatory as it describes the document store the
// server should work with.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("-config=[file] for configuration file to use (local/production)")
}

// main :
// Parses the configuration, brings the world up to date
// and starts serving the game.
func main() {
	help := flag.Bool("h", false, "Print usage")
	config := flag.String("config", "", "Configuration file to customize app behavior")
	flag.Parse()

	if *help {
		usage()
		return
	}
	if config == nil || len(*config) == 0 {
		usage()
		panic(fmt.Errorf("No configuration file provided"))
	}

	metadata := arguments.Parse(*config)

	log := logger.NewStdLogger()
	defer log.Release()

	log.Trace(logger.Notice, "main", fmt.Sprintf("Starting instance \"%s\" (env: \"%s\")", metadata.InstanceID, metadata.Environment))

	// Access to the document store.
	dbase := db.NewDB(log)
	proxy := db.NewProxy(dbase)

	villages := data.NewVillageProxy(proxy, log)
	troops := data.NewTroopProxy(proxy, log)
	actions := data.NewActionProxy(proxy, log)
	users := data.NewUserProxy(proxy, log)

	// Game orchestration.
	registry := comm.NewRegistry(log)
	eng := engine.NewEngine(
		villages,
		troops,
		actions,
		users,
		scheduler.NewScheduler(log),
		locker.NewConcurrentLocker(log),
		registry,
		log,
	)

	if err := eng.Start(context.Background()); err != nil {
		panic(fmt.Errorf("Unable to start game engine (err: %v)", err))
	}
	defer eng.Stop()

	// HTTP surface.
	server := routes.NewServer(metadata.Port, eng, registry, users, log)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("Unexpected error while serving requests (err: %v)", err))
	}
}
