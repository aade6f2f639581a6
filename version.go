package roomread

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the released version of roomread.
var Version = strings.TrimSpace(rawVersion)
