package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
	"github.com/bobmcallan/grocy-mcp/internal/metrics"
)

var testMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

type testRequestInfo struct {
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body,omitempty"`
	AuthMethod string            `json:"authMethod,omitempty"`
}

type testResponseInfo struct {
	StatusCode int               `json:"statusCode"`
	StatusText string            `json:"statusText"`
	Timing     string            `json:"timing"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
}

type testRequestResult struct {
	Request    testRequestInfo  `json:"request"`
	Response   testResponseInfo `json:"response"`
	Validation grocy.Validation `json:"validation"`
}

func describeTestRequest(c *grocy.Client) string {
	ssl := "enabled"
	if !c.SSLVerify() {
		ssl = "disabled"
	}
	return fmt.Sprintf("Test a REST API endpoint and get detailed response information. Base URL: %s | SSL Verification %s (see config resource for SSL settings) | Authentication: %s",
		c.BaseURL(), ssl, c.Auth().Describe())
}

// handleTestRequest sends one diagnostic request and reports both sides of
// the exchange. Error statuses are data here.
func handleTestRequest(ctx context.Context, d *Dispatcher, t Tool, args Args) (*mcp.CallToolResult, error) {
	method, _ := args["method"].(string)
	endpoint, okEndpoint := args["endpoint"].(string)
	callHeaders, okHeaders := stringHeaders(args["headers"])
	if !testMethods[method] || !okEndpoint || !okHeaders {
		return nil, grocy.InvalidParameter("Invalid test endpoint arguments")
	}

	path, err := t.Normalizer(d.client.BaseURL(), endpoint)
	if err != nil {
		return nil, err
	}

	var body any
	if method == http.MethodPost || method == http.MethodPut {
		if obj, ok := args["body"].(map[string]any); ok {
			body = obj
		}
	}

	sanitizer := d.client.Sanitizer()
	sentHeaders := grocy.Headers(sanitizer.Sanitize(d.client.BuildHeaders(callHeaders), false))
	sentHeaders.Merge(sanitizer.Sanitize(callHeaders, true))

	info := testRequestInfo{
		URL:     d.client.URL(path),
		Method:  method,
		Headers: sentHeaders,
		Body:    body,

		AuthMethod: d.client.Auth().Method(),
	}

	resp, err := d.client.Execute(ctx, grocy.Request{
		Method:  method,
		Path:    path,
		Headers: callHeaders,
		Body:    body,
	})
	if err != nil {
		if grocy.KindOf(err) == "" {
			return nil, err
		}
		return errorPayload(map[string]any{
			"error": map[string]any{
				"message": err.Error(),
				"code":    string(grocy.KindOf(err)),
				"request": info,
			},
		}), nil
	}

	result := testRequestResult{
		Request: info,
		Response: testResponseInfo{
			StatusCode: resp.StatusCode,
			StatusText: resp.StatusText,
			Timing:     fmt.Sprintf("%dms", resp.Elapsed.Milliseconds()),
			Headers:    sanitizer.Sanitize(grocy.FlattenHeader(resp.Header), false),
		},
		Validation: grocy.Validation{
			IsError:  resp.StatusCode >= 400,
			Messages: []string{"Request completed successfully"},
		},
	}
	if result.Validation.IsError {
		result.Validation.Messages = []string{fmt.Sprintf("Request failed with status %d", resp.StatusCode)}
	}

	cut, truncated := d.client.Shaper().Shape(resp.Body, &result.Validation)
	if truncated {
		metrics.RecordTruncation(t.Name)
		result.Response.Body = string(cut)
	} else {
		result.Response.Body = d.client.Normalize(resp.Decode())
	}
	return jsonResult(result), nil
}

// stringHeaders accepts a missing headers argument or a flat object.
func stringHeaders(v any) (map[string]string, bool) {
	if v == nil {
		return map[string]string{}, true
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(obj))
	for name, value := range obj {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out[name] = formatValue(value)
	}
	return out, true
}
