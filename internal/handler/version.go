package handler

// Version is reported by /api/status and the readiness probe.
// Overridden at build time via -ldflags "-X ...handler.Version=".
var Version = "1.0.0"
