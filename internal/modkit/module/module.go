// Package module defines the minimal module contract and port lookup helpers
// it sits beside modkit so a module's ports package can import it without a cycle
package module

import (
	phttp "scheduling/internal/platform/net/http"
)

// Module mirrors modkit.Module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
