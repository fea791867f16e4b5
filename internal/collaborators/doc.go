// Package collaborators lists, adds, updates, and removes repository collaborators.
//
// CommandBuilder wires the collaborators Cobra command. Request validation
// runs before any GitHub call, so a missing --username or --permission is
// reported without touching the network.
package collaborators
