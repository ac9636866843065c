// Package daemon coordinates the long-running Capstan process.
//
// It wires configuration, queue storage, the workflow manager, and the inbox
// watcher into a single lifecycle with flock-based locking to prevent
// multiple instances. The watcher polls the inbox directory for new HAR
// captures and enqueues their episodes; the workflow manager drains the
// queue.
//
// Keep orchestration logic here: individual workflow stages live in their
// respective packages while the daemon focuses on startup, shutdown, and
// high-level coordination.
package daemon
