// Package logger provides structured logging for the library on top of
// zerolog. A global logger serves package-level helpers; components obtain
// tagged child loggers via WithComponent or WithPipeline.
package logger
