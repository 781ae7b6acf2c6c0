package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

const (
	openProductHelp    = "When using productId, Grocy will automatically use first-in-first-out for stock selection. For more precise control, use stockEntryId instead. To find valid stock entry IDs, use the get_product_entries tool with your productId."
	openProductExample = "Try using the get_product_entries tool with the product ID to find valid stock entries for a specific product"
)

// handleOpenProduct marks stock as opened. With only a stock entry id the
// product is looked up from the entry first.
func handleOpenProduct(ctx context.Context, d *Dispatcher, t Tool, args Args) (*mcp.CallToolResult, error) {
	if !args.truthy("productId") && !args.truthy("stockEntryId") {
		return nil, grocy.InvalidParameter("Either productId or stockEntryId must be provided")
	}

	body := map[string]any{"amount": args["amount"]}
	args.setIf(body, "note", "note")
	args.setIf(body, "stock_entry_id", "stockEntryId")

	fail := func(err error) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.logger.Warn().Err(err).Msg("open product failed")
		return errorPayload(map[string]any{
			"error":   "Failed to open product: " + grocy.FormatError(err),
			"help":    openProductHelp,
			"example": openProductExample,
		}), nil
	}

	productID := args.str("productId")
	if !args.truthy("productId") {
		entryID := args.str("stockEntryId")
		d.logger.Info().Str("stock_entry_id", entryID).Msg("resolving product from stock entry")

		pid, err := d.productForEntry(ctx, entryID)
		if err != nil {
			return fail(fmt.Errorf("Failed to get product ID from stock entry: %s", grocy.FormatError(err))) //nolint:staticcheck // user-facing message
		}
		productID = pid
	}

	path, err := t.Normalizer(d.client.BaseURL(), expandPath(t.Path, Args{"productId": productID}))
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return fail(err)
	}
	return d.shaped(t.Name, resp), nil
}

// productForEntry reads product_id from a stock entry.
func (d *Dispatcher) productForEntry(ctx context.Context, entryID string) (string, error) {
	data, err := d.client.Call(ctx, http.MethodGet, grocy.APIRoot+"/stock/entry/"+expandPath("{id}", Args{"id": entryID}), nil)
	if err != nil {
		return "", err
	}
	entry, _ := data.(map[string]any)
	if entry == nil || !truthy(entry["product_id"]) {
		return "", fmt.Errorf("Could not resolve product ID from stock entry %s", entryID) //nolint:staticcheck // user-facing message
	}
	return formatValue(entry["product_id"]), nil
}
