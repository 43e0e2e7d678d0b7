// Package loader registers the features served by the HTTP service.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order and LoadAll mounts the enabled
// ones on the application.
package loader
