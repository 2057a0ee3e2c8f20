// Package common holds shared constants and logging setup used across
// the module and its command-line tools.
package common

// PackageName identifies this module in logs and metrics.
const PackageName = "https-utils"

// Version is the module version string. It is meant to be overridden
// at link time via -ldflags.
var Version = "dev"
