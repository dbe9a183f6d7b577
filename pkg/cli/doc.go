// Package cli parses the emailer's command-line flags, with environment
// variable fallbacks for containerized deployments.
package cli
