// Package types provides shared type definitions used across the nutrimap packages.
//
// ProviderID and Nutrient are referenced by the extraction, reconciliation and
// provider packages alike; keeping them here avoids import cycles.
//
// The package has zero dependencies.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
