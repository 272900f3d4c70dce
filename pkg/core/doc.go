// Package core defines the shared vocabulary of the enginespec system.
//
// This package contains:
//   - Generic type classification and canonical SQL type descriptors
//   - Column, index and partition descriptors
//   - Structured error values produced by error classification
//   - Collaborator interfaces (Inspector, Connection, FeatureFlags)
//   - Adapter configuration
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
