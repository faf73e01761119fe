// Package utils exposes the configuration and logging helpers shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// environment variables through Viper; LoggerFactory builds zap loggers in
// structured or console encoding.
package utils
