// Package assets provides stylesheets embedded at build time.
package assets

import _ "embed"

// Preflight is the base-layer reset emitted before components and utilities.
//
//go:embed preflight.css
var Preflight string
