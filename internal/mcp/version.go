package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

// versionInfo holds the build of this server.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// handleCheckVersion reports the Grocy release alongside this server's build.
func handleCheckVersion(ctx context.Context, d *Dispatcher, t Tool, _ Args) (*mcp.CallToolResult, error) {
	info, err := d.client.SystemInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return errorResult(d.failure(t, t.Path, err)), nil
	}

	return jsonResult(map[string]any{
		"server": versionInfo{
			Version: common.Version,
			Build:   common.Build,
			Commit:  common.GitCommit,
		},
		"grocyVersion":  info.GrocyVersion.Version,
		"compatibility": grocy.CheckVersion(info.GrocyVersion.Version),
	}), nil
}
