package mcp

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

//go:embed resources/*.md
var resourceFS embed.FS

const markdownMIME = "text/markdown"

// Resource is one embedded markdown document.
type Resource struct {
	Name        string
	Title       string
	Description string
}

// Resources lists the documents served under <server-name>://<name>.
var Resources = []Resource{
	{Name: "examples", Title: "Grocy API Usage Examples", Description: "Detailed examples of using the Grocy API"},
	{Name: "response-format", Title: "Response Format Documentation", Description: "Documentation of the response format and structure"},
	{Name: "config", Title: "Configuration Documentation", Description: "Documentation of all configuration options and how to use them"},
}

// ResourceURI builds the URI a resource is served under.
func ResourceURI(serverName, name string) string {
	return serverName + "://" + name
}

// ReadResource returns the markdown behind uri.
func ReadResource(serverName, uri string) (string, error) {
	prefix := serverName + "://"
	if !strings.HasPrefix(uri, prefix) {
		return "", &grocy.Error{Kind: grocy.KindResourceNotFound, Message: "Invalid resource URI format: " + uri}
	}
	name := strings.TrimPrefix(uri, prefix)
	for _, r := range Resources {
		if r.Name != name {
			continue
		}
		b, err := resourceFS.ReadFile("resources/" + name + ".md")
		if err != nil {
			return "", fmt.Errorf("failed to read resource %s: %w", name, err)
		}
		return string(b), nil
	}
	return "", &grocy.Error{Kind: grocy.KindResourceNotFound, Message: "Resource not found: " + name}
}

// RegisterResources adds the markdown documents to s.
func RegisterResources(s *server.MCPServer, serverName string) {
	for _, r := range Resources {
		uri := ResourceURI(serverName, r.Name)
		s.AddResource(
			mcp.NewResource(uri, r.Title,
				mcp.WithResourceDescription(r.Description),
				mcp.WithMIMEType(markdownMIME),
			),
			func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				text, err := ReadResource(serverName, req.Params.URI)
				if err != nil {
					return nil, err
				}
				return []mcp.ResourceContents{
					mcp.TextResourceContents{URI: req.Params.URI, MIMEType: markdownMIME, Text: text},
				}, nil
			},
		)
	}
}
