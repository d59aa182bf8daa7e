// Package common provides shared constants, types, utilities, and interfaces
// used throughout the AI Wrapper application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: window geometry, chrome height, file names, timeouts
//   - Errors: sentinel errors shared by the catalog, sessions, and chat layers
//   - Interfaces: abstractions for notifications, credential storage, and logging
//   - Logger: leveled logging to stdout and a rotating file
//   - Utils: directory helpers and small slice utilities
//
// # Usage
//
//	common.LogInfo("Switching to mode %s", name)
//
//	if errors.Is(err, common.ErrSessionCreate) {
//	    // startup cannot continue
//	}
package common
