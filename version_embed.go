package main

import (
	_ "embed"
	"strings"

	"hdframe/cmd"
)

//go:embed VERSION
var embeddedVersion string

func init() {
	v := strings.TrimSpace(embeddedVersion)
	if v != "" && cmd.Version == "dev" {
		cmd.Version = v
	}
	cmd.ApplyVersion()
}
