// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Each call loads its own in-memory copy of the document; there is no
// shared mutable state between calls.
package services
