// Package cli is the EcoSync terminal front end.
//
// Every action is a cobra command. Run with arguments, the binary executes a
// single command and exits; run without, it restores the saved session,
// loads the profile selectors and starts a shell whose lines are dispatched
// through the same command tree. A background watcher probes the backend's
// health endpoint and shows online or offline in the shell prompt.
package cli
