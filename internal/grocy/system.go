package grocy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SystemInfo is the subset of /api/system/info this server reads.
type SystemInfo struct {
	GrocyVersion struct {
		Version     string `json:"Version"`
		ReleaseDate string `json:"ReleaseDate"`
	} `json:"grocy_version"`
	PHPVersion    string `json:"php_version"`
	SQLiteVersion string `json:"sqlite_version"`
}

// SystemInfo fetches the server's system information.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	resp, err := c.Do(ctx, http.MethodGet, APIRoot+"/system/info", nil)
	if err != nil {
		return nil, err
	}
	var info SystemInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode system info: %w", err)
	}
	return &info, nil
}

// SystemVersion returns the Grocy version and its compatibility report.
func (c *Client) SystemVersion(ctx context.Context) (Compatibility, error) {
	info, err := c.SystemInfo(ctx)
	if err != nil {
		return Compatibility{}, err
	}
	if info.GrocyVersion.Version == "" {
		return Compatibility{}, fmt.Errorf("system info did not include grocy_version.Version")
	}
	return CheckVersion(info.GrocyVersion.Version), nil
}
