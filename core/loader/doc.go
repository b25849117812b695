// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and registers its own
// routes when loaded.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of features. Register() adds one; LoadAll()
// loads the enabled ones in registration order and logs the disabled ones.
// The gallery and account features are registered by the start command.
package loader
