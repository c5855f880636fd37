package data

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"minute_empire_server/internal/game"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// UserProxy :
// Intended as a wrapper to access the registered users
// in the document store.
type UserProxy struct {
	commonProxy
}

// usersCollection : Name of the collection holding the users.
const usersCollection = "users"

// NewUserProxy :
// Creates a new proxy on the input store access.
//
// The `proxy` defines the access to the store.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewUserProxy(proxy db.Proxy, log logger.Logger) UserProxy {
	return UserProxy{
		commonProxy: newCommonProxy(proxy, log),
	}
}

// User :
// Fetches the user with the specified identifier.
//
// Returns the user or `db.ErrNoDocument` when the
// identifier is unknown.
func (p UserProxy) User(ctx context.Context, id string) (game.User, error) {
	var u game.User
	err := p.proxy.FindByID(ctx, usersCollection, id, &u)
	return u, err
}

// UserByUsername :
// Fetches the user with the specified username.
//
// Returns the user or `db.ErrNoDocument` when the
// username is unknown.
func (p UserProxy) UserByUsername(ctx context.Context, username string) (game.User, error) {
	var u game.User
	err := p.proxy.FindOneByFieldMatch(ctx, usersCollection, bson.M{"username": username}, &u)
	return u, err
}

// AllUsers :
// Fetches every registered user. Used to attach basic
// owner information to the foreign villages of the map
// view.
func (p UserProxy) AllUsers(ctx context.Context) ([]game.User, error) {
	users := make([]game.User, 0)
	err := p.proxy.FindAll(ctx, usersCollection, &users)
	return users, err
}

// Create :
// Inserts the input user. The identifier should be
// assigned beforehand and the username must not be
// taken already.
func (p UserProxy) Create(ctx context.Context, u game.User) error {
	if u.ID == "" {
		return fmt.Errorf("Cannot create user with no identifier")
	}

	_, err := p.UserByUsername(ctx, u.Username)
	if err == nil {
		return fmt.Errorf("Username \"%s\" is already taken", u.Username)
	}
	if err != db.ErrNoDocument {
		return err
	}

	err = p.proxy.InsertOne(ctx, usersCollection, u)
	if err == nil {
		p.trace(logger.Notice, "users", fmt.Sprintf("Registered user \"%s\" (\"%s\")", u.Username, u.ID))
	}

	return err
}
