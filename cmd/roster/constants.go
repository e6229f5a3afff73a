package main

// Default limits for CLI commands.
const (
	DefaultAuditLimit = 20
)

// Valid import formats.
var validFormats = []string{"json", "csv", "auto"}
