// Package web carries the dashboard page compiled into the binary.
package web

import "embed"

//go:embed static
var Static embed.FS
