// Package config defines the YAML configuration for the preflight checker and
// the machinery to load, default and validate it.
//
// Configuration is loaded once per run and immutable afterwards. The loading
// sequence is:
//
//  1. Read and unmarshal the YAML file
//  2. Apply default values for unset fields
//  3. Apply PREFLIGHT_* environment variable overrides
//  4. Validate the final configuration
//
// Validation collects every problem into a single ValidationError rather than
// stopping at the first, so an operator can fix a config file in one pass. A
// validation failure is fatal for the run: no rule executes against an
// invalid configuration.
package config
