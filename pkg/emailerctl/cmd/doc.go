// Package cmd implements the emailerctl command tree: submit event files to
// a running emailer, normalize events locally for debugging, and print
// build information.
package cmd
