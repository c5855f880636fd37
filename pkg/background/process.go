package background

import (
	"fmt"
	"sync"
	"time"

	"minute_empire_server/pkg/logger"
)

// OperationFunc :
// The work item attached to a process. It reports
// whether the execution succeeded along with any
// error worth logging.
type OperationFunc func() (bool, error)

// Process :
// Runs an operation periodically in a dedicated
// routine, typically a connection healthcheck. The
// operation can optionally be retried right away upon
// failure instead of waiting for the next period.
//
// The `interval` separates two regular executions.
//
// The `retryInterval` separates two attempts when the
// operation fails and the retry behavior is enabled.
// The default value is one second.
//
// The `operation` defines the work to execute.
//
// The `module` tags the log entries of this process.
type Process struct {
	interval      time.Duration
	retryInterval time.Duration
	operation     OperationFunc
	retry         bool
	log           logger.Logger
	module        string

	lock        sync.Mutex
	running     bool
	termination chan bool
	waiter      sync.WaitGroup
}

// ErrAlreadyRunning : Indicates that this process is already started.
var ErrAlreadyRunning = fmt.Errorf("Unable to start already running process")

// ErrInvalidOperation : Indicates that no operation is attached to this process.
var ErrInvalidOperation = fmt.Errorf("Invalid operation to start process")

// NewProcess :
// Creates a process executing nothing yet with the
// input period.
//
// The `interval` defines the time between two calls
// of the operation.
//
// The `log` allows to notify errors and information.
//
// Returns the built-in object.
func NewProcess(interval time.Duration, log logger.Logger) *Process {
	return &Process{
		interval:      interval,
		retryInterval: time.Second,
		log:           log,
		module:        "process",
		termination:   make(chan bool, 1),
	}
}

// WithModule :
// Assigns the tag used by this process when logging.
//
// Returns this process to allow chaining.
func (p *Process) WithModule(module string) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.module = module

	return p
}

// WithRetry :
// Requests the operation to be retried immediately
// (after the retry interval) when it fails, instead
// of waiting for the next period.
//
// Returns this process to allow chaining.
func (p *Process) WithRetry() *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retry = true

	return p
}

// WithRetryInterval :
// Assigns the wait between two attempts of a failing
// operation.
//
// Returns this process to allow chaining.
func (p *Process) WithRetryInterval(interval time.Duration) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retryInterval = interval

	return p
}

// WithOperation :
// Assigns the work executed by this process.
//
// Returns this process to allow chaining.
func (p *Process) WithOperation(operation OperationFunc) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.operation = operation

	return p
}

// Start :
// Starts the periodic execution. An operation must
// have been attached beforehand.
//
// Returns any error.
func (p *Process) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.operation == nil {
		return ErrInvalidOperation
	}

	p.running = true
	p.waiter.Add(1)

	go p.activeLoop()

	return nil
}

// Stop :
// Requests the termination of the periodic execution
// and waits for the loop to return.
func (p *Process) Stop() {
	p.lock.Lock()
	if !p.running {
		p.lock.Unlock()
		return
	}
	p.running = false
	p.lock.Unlock()

	p.termination <- true
	p.waiter.Wait()
}

// activeLoop :
// Main processing loop: waits for the period to elapse
// and executes the operation, until termination is
// requested. A panic escaping the operation is logged
// and stops the process rather than the server.
func (p *Process) activeLoop() {
	defer func() {
		if r := recover(); r != nil {
			p.log.Trace(logger.Critical, p.module, fmt.Sprintf("Recovered from error in process (err: %v)", r))
		}
		p.waiter.Done()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.termination:
			return
		case <-ticker.C:
			p.execute()
		}
	}
}

// execute :
// Runs the operation, retrying on failure when the
// retry behavior is enabled.
func (p *Process) execute() {
	for {
		success, err := p.operation()
		if err != nil {
			p.log.Trace(logger.Error, p.module, fmt.Sprintf("Caught error while executing process (err: %v)", err))
		}

		if success || !p.retry {
			return
		}

		p.log.Trace(logger.Verbose, p.module, fmt.Sprintf("Failed to execute process, retrying in %v", p.retryInterval))
		time.Sleep(p.retryInterval)
	}
}
