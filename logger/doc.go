// Package logger wraps zerolog with a small structured-logging API
// shared by the client and engine packages: leveled methods with
// optional field maps, component tagging, and a process-wide default.
package logger
