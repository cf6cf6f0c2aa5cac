// Package internal contains the shared infrastructure for the sceneflow engine:
// structured logging and the resource cache used by the scene registry.
// Types and functions in this package are not part of the public API.
package internal
