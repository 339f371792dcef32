package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by every backend when a record does not exist
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence of the development
// collaborator
type Repository interface {
	Activity() ActivityRepository

	Close() error
}
