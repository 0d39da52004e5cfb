// Package confloader provides configuration loading mechanism.
//
// This package implements a flexible configuration loader that supports
// multiple sources and formats using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: Files, environment variables, flags, maps
//   - YAML configuration files with koanf-tagged struct unmarshaling
//   - Watch Support: Automatic reload on config file changes
//   - Defaults: callers preload default values into the target struct
//
// Priority (highest to lowest):
//
//  1. Command-line flags (merged via LoadMap)
//  2. Environment variables (TELEMESH_ prefix)
//  3. Configuration files
//  4. Default values
//
// The Watcher pairs with the loader so a running agent can pick up
// config file edits, for example to adjust the log level without a
// restart.
package confloader
