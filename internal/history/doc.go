// Package history records completed conversion attempts in a small SQLite
// database so past commands, outcomes, and log locations survive restarts.
package history
