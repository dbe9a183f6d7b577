// Package config loads the emailer configuration from an optional YAML file
// and applies environment variable overrides. The environment variable names
// dynamodb_table_name, s3_bucket_name and admin_email_source are recognized
// verbatim for compatibility with existing deployments.
package config
