// Package watch keeps exports up to date while a cmonkey run is still
// in progress. Watcher re-exports when the results database changes on
// disk; Scheduler re-exports on a fixed cron schedule.
package watch
