// Package account resolves account identifiers to contact records via the
// DynamoDB account mapping table. Lookups are single-key reads with no
// caching; a missing mapping degrades to an empty contact record rather
// than failing the pipeline.
package account
