// Package daemon keeps a documentation site up to date.
//
// It rebuilds a fixed set of modules on a cron schedule or interval, and
// regenerates their redirect pages when the redirect template changes.
// Rebuilds run one module at a time and a scheduled run never overlaps the
// previous one.
package daemon
