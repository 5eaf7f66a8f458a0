// Package config loads configuration from YAML files and environment
// variables via viper and godotenv. YAML provides the base values; .env
// files and process environment variables override them, with automatic
// binding of UPPER_CASE names to nested dotted keys.
package config
