package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/grocy"
	"github.com/bobmcallan/grocy-mcp/internal/metrics"
)

// Dispatcher resolves tool names against the static table and runs them
// against one Grocy client. It is safe for concurrent use.
type Dispatcher struct {
	client *grocy.Client
	logger *common.Logger
	tools  map[string]Tool
	order  []string
	now    func() time.Time
}

// NewDispatcher builds a dispatcher over Catalog().
func NewDispatcher(client *grocy.Client, logger *common.Logger) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	d := &Dispatcher{
		client: client,
		logger: logger,
		tools:  make(map[string]Tool),
		now:    time.Now,
	}
	for _, t := range Catalog() {
		d.tools[t.Name] = t
		d.order = append(d.order, t.Name)
	}
	return d
}

// Client returns the Grocy client tools run against.
func (d *Dispatcher) Client() *grocy.Client { return d.client }

// Tools returns the table in listing order.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name])
	}
	return out
}

// Lookup finds a tool by name.
func (d *Dispatcher) Lookup(name string) (Tool, error) {
	t, ok := d.tools[name]
	if !ok {
		return Tool{}, &grocy.Error{Kind: grocy.KindUnknownTool, Message: "Unknown tool: " + name}
	}
	return t, nil
}

// Call runs the named tool. Protocol failures (bad arguments, unknown tools)
// come back as errors; Grocy failures come back as error results.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, err := d.Lookup(name)
	if err != nil {
		return nil, err
	}
	prepared, err := d.prepare(t, args)
	if err != nil {
		return nil, err
	}
	if t.Handler != nil {
		return t.Handler(ctx, d, t, prepared)
	}
	return d.request(ctx, t, prepared)
}

// prepare coerces and validates numeric arguments, checks required ones and
// fills defaults.
func (d *Dispatcher) prepare(t Tool, raw map[string]any) (Args, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	args := grocy.EnsureNumericParams(raw)

	if fields := t.numericParams(); len(fields) > 0 {
		validated, errs := grocy.ValidateObject(args, fields)
		if len(errs) > 0 {
			return nil, grocy.InvalidParameter("%s", strings.Join(errs, "; "))
		}
		args = validated
	}

	a := Args(args)
	for _, p := range t.Params {
		if p.Required && !a.present(p.Name) {
			return nil, grocy.InvalidParameter("%s is required", p.Name)
		}
	}

	now := d.now()
	for _, p := range t.Params {
		if p.Default != nil && !a.present(p.Name) {
			a[p.Name] = p.Default(now)
		}
	}
	return a, nil
}

// target expands the path template and appends the optional query.
func (t Tool) target(args Args) string {
	endpoint := expandPath(t.Path, args)
	if t.Query != nil {
		if q := t.Query(args); q != "" {
			endpoint += "?" + q
		}
	}
	return endpoint
}

// request runs the single-request template: one call, shaped result.
func (d *Dispatcher) request(ctx context.Context, t Tool, args Args) (*mcp.CallToolResult, error) {
	endpoint := t.target(args)
	path, err := t.Normalizer(d.client.BaseURL(), endpoint)
	if err != nil {
		return nil, err
	}

	var body any
	if t.Body != nil {
		body = t.Body(args, d.now())
	}
	return d.send(ctx, t, t.Method, endpoint, path, body)
}

// send performs the request and renders either the data or the failure.
func (d *Dispatcher) send(ctx context.Context, t Tool, method, endpoint, path string, body any) (*mcp.CallToolResult, error) {
	resp, err := d.client.Do(ctx, method, path, body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return errorResult(d.failure(t, endpoint, err)), nil
	}
	return d.shaped(t.Name, resp), nil
}

// failure renders the user-facing message for a failed call.
func (d *Dispatcher) failure(t Tool, endpoint string, err error) string {
	if t.Relay || t.Action == "" {
		return fmt.Sprintf("Failed to call Grocy API endpoint %s: %s", endpoint, grocy.FormatError(err))
	}
	return fmt.Sprintf("Failed to %s: %s", strings.ToLower(t.Action), grocy.FormatError(err))
}

// shaped renders a successful response. Bodies over the size limit are
// returned as truncated text with a validation block.
func (d *Dispatcher) shaped(tool string, resp *grocy.Response) *mcp.CallToolResult {
	var v grocy.Validation
	cut, truncated := d.client.Shaper().Shape(resp.Body, &v)
	if truncated {
		metrics.RecordTruncation(tool)
		d.logger.Warn().
			Str("tool", tool).
			Int("original_size", len(resp.Body)).
			Int("returned_size", len(cut)).
			Msg("response truncated")
		v.Messages = append([]string{"Request completed successfully"}, v.Messages...)
		return jsonResult(map[string]any{
			"data":       string(cut),
			"validation": v,
		})
	}
	return jsonResult(d.client.Normalize(resp.Decode()))
}
