// Package config defines the application configuration structure and loads
// it from defaults, an optional config file, and environment variables with
// the ARCANA_ prefix. Loaded configuration is validated before use.
package config
