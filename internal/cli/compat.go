package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/mintdesk/mintdesk/pkg/client"
)

// apiVersion is the API major version this CLI speaks
const apiVersion = "v1"

// warnIfIncompatible checks the server's reported API version against ours
// and prints a warning for a major-version mismatch. Health check failures
// are ignored so offline diagnostics still work.
func warnIfIncompatible(ctx context.Context, c *client.Client) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := c.Health(ctx)
	if err != nil || health.APIVersion == "" {
		return
	}

	server := health.APIVersion
	if !strings.HasPrefix(server, "v") {
		server = "v" + server
	}
	if !semver.IsValid(server) {
		return
	}

	if semver.Major(server) != semver.Major(apiVersion) {
		fmt.Fprintf(os.Stderr, "Warning: server API version %s does not match CLI API version %s; upgrade the CLI\n",
			health.APIVersion, apiVersion)
	}
}
