package mcp

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

func TestOpenProduct_ByProductID(t *testing.T) {
	f := newFakeGrocy(t, nil)
	d := newTestDispatcher(t, f, nil)

	result, err := callTool(t, d, "open_product", map[string]any{"productId": 9, "note": "fridge"})
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	calls := f.calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Path != "/api/stock/products/9/open" {
		t.Errorf("path = %s", calls[0].Path)
	}
	if calls[0].Body["amount"] != float64(1) || calls[0].Body["note"] != "fridge" {
		t.Errorf("body = %v", calls[0].Body)
	}
	if _, ok := calls[0].Body["stock_entry_id"]; ok {
		t.Error("stock_entry_id should be omitted")
	}
}

func TestOpenProduct_ResolvesStockEntry(t *testing.T) {
	f := newFakeGrocy(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"id":31,"product_id":"14","stock_id":"6523f0a1"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	d := newTestDispatcher(t, f, nil)

	result, err := callTool(t, d, "open_product", map[string]any{"stockEntryId": 31, "amount": 2})
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	calls := f.calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Method != http.MethodGet || calls[0].Path != "/api/stock/entry/31" {
		t.Errorf("lookup = %s %s", calls[0].Method, calls[0].Path)
	}
	if calls[1].Method != http.MethodPost || calls[1].Path != "/api/stock/products/14/open" {
		t.Errorf("open = %s %s", calls[1].Method, calls[1].Path)
	}
	if calls[1].Body["stock_entry_id"] != float64(31) || calls[1].Body["amount"] != float64(2) {
		t.Errorf("body = %v", calls[1].Body)
	}
}

func TestOpenProduct_NeitherID(t *testing.T) {
	f := newFakeGrocy(t, nil)
	d := newTestDispatcher(t, f, nil)

	_, err := callTool(t, d, "open_product", map[string]any{"amount": 1})
	if grocy.KindOf(err) != grocy.KindInvalidParameter {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if err.Error() != "Either productId or stockEntryId must be provided" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestOpenProduct_StockEntryLookupFails(t *testing.T) {
	f := newFakeGrocy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_message":"Stock entry not found"}`))
	})
	d := newTestDispatcher(t, f, nil)

	result, err := callTool(t, d, "open_product", map[string]any{"stockEntryId": 31})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected isError")
	}
	out := resultJSON(t, result)
	msg, _ := out["error"].(string)
	if !strings.HasPrefix(msg, "Failed to open product: Failed to get product ID from stock entry: API error (404)") {
		t.Errorf("error = %q", msg)
	}
	if out["help"] != openProductHelp || out["example"] != openProductExample {
		t.Errorf("missing help text: %v", out)
	}
	if n := len(f.calls()); n != 1 {
		t.Errorf("expected only the lookup call, got %d", n)
	}
}
