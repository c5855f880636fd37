package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// configuration :
// Provides a way to configure the way logs are displayed. The
// logger prints to the standard output with some coloring based
// on the severity of the message. Values are retrieved from the
// configuration file when the logger is built.
//
// The `AppName` describes a string for the name of the app
// using the logger. It is prepended to every log message.
// The default value is "minute_empire".
//
// The `Level` is a string representing the minimum level of a
// log message in order for it to be displayed. Basically it
// allows to filter debug messages from production environments.
// The default value is "info".
//
// The `Buffer` allows to specify the size of the buffer used
// to accumulate log messages. The logger does not directly
// output messages to the standard output but stores them in
// an internal channel with a predefined size so that bursts
// of messages can be absorbed without blocking the callers.
// The default value is 500.
type configuration struct {
	AppName string
	Level   string
	Buffer  int
}

// traceMessage :
// Describes a message to be enqueued by the logger. It contains
// the needed information to display the message such as its
// severity, the module that produced it and its content.
type traceMessage struct {
	level   Severity
	module  string
	content string
}

// StdLogger :
// Logger implementation forwarding messages to the standard
// output. Messages are enqueued in an internal channel and
// dumped by a dedicated routine so that callers are not
// blocked by the underlying display device as long as the
// buffer is not full.
//
// The `config` holds the settings parsed from the viper
// configuration upon building the logger.
//
// The `minLevel` is the severity below which messages are
// dropped without being enqueued.
//
// The `logChannel` receives the trace messages from the
// modules before they are sent to the logging device.
//
// The `endChannel` is used to request the termination of
// the logging routine.
//
// The `closed` and `locker` protect the log channel from
// being used after the logger has been released.
//
// The `waiter` allows to wait for the proper termination
// of the logging routine so that the last posted messages
// are displayed before shutdown.
type StdLogger struct {
	config     configuration
	minLevel   Severity
	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// parseConfiguration :
// Used to retrieve the parameters to apply to the logger from
// the configuration file. A default configuration is provided
// to work in most cases.
//
// Returns the arguments parsed from the configuration file.
func parseConfiguration() configuration {
	config := configuration{
		"minute_empire",
		"info",
		500,
	}

	if viper.IsSet("Logging.Name") {
		config.AppName = viper.GetString("Logging.Name")
	}
	if viper.IsSet("Logging.Level") {
		config.Level = viper.GetString("Logging.Level")
	}
	if viper.IsSet("Logging.Buffer") {
		config.Buffer = viper.GetInt("Logging.Buffer")
	}

	return config
}

// NewStdLogger :
// Used to create a new logger printing to the standard output.
// The created logger parses the configuration file provided by
// the environment and adapts its settings right away.
//
// The return value represents the produced logger.
func NewStdLogger() *StdLogger {
	config := parseConfiguration()

	log := StdLogger{
		config:     config,
		minLevel:   fromString(config.Level),
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
	}

	log.waiter.Add(1)
	go log.performLogging()

	return &log
}

// Release :
// Used to perform the stopping of the active loop meant to
// handle logging to the underlying device. It blocks until
// the routine actually returns to make sure that the last
// posted logs are dumped.
func (log *StdLogger) Release() {
	log.endChannel <- false

	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	log.waiter.Wait()
}

// Trace :
// Used to perform the log of the input message with the
// specified level. The message is not directly transmitted
// to the logging device but placed in the internal buffer
// so that it can be processed by the active logging loop.
// The caller is only blocked in case the buffer is full.
//
// The `level` describes the severity of the message.
//
// The `module` identifies the component emitting the log.
//
// The `message` describes the content of the message.
func (log *StdLogger) Trace(level Severity, module string, message string) {
	if level < log.minLevel {
		return
	}

	trace := traceMessage{
		level,
		module,
		message,
	}

	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// performLogging :
// Used to perform logging. This method is meant to be
// launched as a dedicated routine and will poll the
// internal trace channel to display messages.
func (log *StdLogger) performLogging() {
	keepLogging := true

	for keepLogging {
		select {
		case keepLogging = <-log.endChannel:
		case trace := <-log.logChannel:
			log.performSingleLog(trace)
		}
	}

	// Dump the remaining messages of the log channel.
	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	log.waiter.Done()
}

// performSingleLog :
// Dumps the input trace to the standard output with the
// timestamp, application name, severity and module.
//
// The `trace` defines the message to display.
func (log *StdLogger) performSingleLog(trace traceMessage) {
	stamp := time.Now().UTC().Format("2006-01-02 15:04:05.000")

	module := trace.module
	if len(module) == 0 {
		module = "general"
	}

	fmt.Printf("[%s] [%s] %s [%s] %s\n",
		stamp,
		log.config.AppName,
		trace.level.String(),
		module,
		trace.content,
	)
}
