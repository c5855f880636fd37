package data

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// commonProxy :
// Provides the base building block for the proxies of
// this package: access to the document store and a way
// to log information about the processes.
//
// The `proxy` provides the low level access to the
// collections of the store.
//
// The `log` allows to notify errors and information.
type commonProxy struct {
	proxy db.Proxy
	log   logger.Logger
}

// newCommonProxy :
// Builds the base for a data proxy from the input store
// access and logger.
func newCommonProxy(proxy db.Proxy, log logger.Logger) commonProxy {
	return commonProxy{
		proxy: proxy,
		log:   log,
	}
}

// trace :
// Convenience wrapper around the logger.
func (c commonProxy) trace(level logger.Severity, module string, msg string) {
	c.log.Trace(level, module, msg)
}

// NewID :
// Produces a fresh document identifier: a 24 characters
// hexadecimal string, unique across the deployment.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
