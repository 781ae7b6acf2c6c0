package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Type        string // string, number, boolean, object
	Description string
	Required    bool
	Enum        []string
	// Default fills the argument when the caller leaves it out.
	Default func(now time.Time) any
}

// BodyFunc builds the JSON request body from defaulted arguments.
type BodyFunc func(args Args, now time.Time) map[string]any

// HandlerFunc implements a tool that does not fit the single-request template.
type HandlerFunc func(ctx context.Context, d *Dispatcher, t Tool, args Args) (*mcp.CallToolResult, error)

// Tool is one entry in the static tool table.
type Tool struct {
	Name        string
	Description string
	// Describe overrides Description with text derived from the client configuration.
	Describe func(c *grocy.Client) string
	// Action is used in failure messages: "Failed to <action>: ...".
	Action string
	Method string
	// Path is a template with {param} placeholders, fed to Normalizer.
	Path       string
	Normalizer grocy.Normalizer
	// Relay tools report failures against their endpoint, like call_grocy_api.
	Relay   bool
	Params  []Param
	Body    BodyFunc
	Query   func(args Args) string
	Handler HandlerFunc
}

// numericParams lists the number-typed parameters of t.
func (t Tool) numericParams() []string {
	var names []string
	for _, p := range t.Params {
		if p.Type == "number" {
			names = append(names, p.Name)
		}
	}
	return names
}

// MCPTool converts t into its protocol definition.
func (t Tool) MCPTool(c *grocy.Client) mcp.Tool {
	desc := t.Description
	if t.Describe != nil && c != nil {
		desc = t.Describe(c)
	}
	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, p := range t.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

// buildParamOption maps a Param to the matching mcp-go tool option.
func buildParamOption(p Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	switch p.Type {
	case "number":
		return mcp.WithNumber(p.Name, opts...)
	case "boolean":
		return mcp.WithBoolean(p.Name, opts...)
	case "object":
		return mcp.WithObject(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

func constant(v any) func(time.Time) any {
	return func(time.Time) any { return v }
}

func optionalNote(args Args, body map[string]any) map[string]any {
	args.setIf(body, "note", "note")
	return body
}

// Catalog returns the full tool table in listing order.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        "get_stock_volatile",
			Description: "Get volatile stock information (due products, overdue products, expired products, missing products).",
			Action:      "Get volatile stock information",
			Method:      http.MethodGet,
			Path:        "/api/stock/volatile",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "includeDetails", Type: "boolean", Description: "Whether to include additional details about each stock item"},
			},
			Query: func(args Args) string {
				if args.boolean("includeDetails") {
					return "include_details=true"
				}
				return ""
			},
		},
		listTool("get_shopping_list", "Get your current shopping list items.", "Get shopping list items", "/objects/shopping_list"),
		listTool("get_chores", "Get all chores from your Grocy instance.", "Get all chores", "/objects/chores"),
		listTool("get_tasks", "Get all tasks from your Grocy instance.", "Get all tasks", "/objects/tasks"),
		listTool("get_locations", "Get all storage locations from your Grocy instance.", "Get all storage locations", "/objects/locations"),
		listTool("get_shopping_locations", "Get all shopping locations (stores) from your Grocy instance.", "Get all shopping locations", "/objects/shopping_locations"),
		listTool("get_product_groups", "Get all product groups from your Grocy instance.", "Get all product groups", "/objects/product_groups"),
		listTool("get_quantity_units", "Get all quantity units from your Grocy instance.", "Get all quantity units", "/objects/quantity_units"),
		listTool("get_users", "Get all users from your Grocy instance.", "Get all users", "/users"),
		{
			Name:        "get_recipe_fulfillment",
			Description: "Get stock fulfillment information for a specific recipe.",
			Action:      "Get recipe fulfillment",
			Method:      http.MethodGet,
			Path:        "/recipes/{recipeId}/fulfillment",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "recipeId", Type: "number", Description: "ID of the recipe to check fulfillment for", Required: true},
			},
		},
		listTool("get_recipes_fulfillment", "Get fulfillment information for all recipes.", "Get all recipes fulfillment", "/recipes/fulfillment"),
		{
			Name:        "add_recipe_products_to_shopping_list",
			Description: "Add not fulfilled products of a recipe to the shopping list.",
			Action:      "Add recipe products to shopping list",
			Method:      http.MethodPost,
			Path:        "/recipes/{recipeId}/add-not-fulfilled-products-to-shoppinglist",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "recipeId", Type: "number", Description: "ID of the recipe", Required: true},
			},
		},
		{
			Name:        "undo_action",
			Description: "Undo an action for different entity types (chores, batteries, tasks).",
			Action:      "Undo action",
			Method:      http.MethodPost,
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "entityType", Type: "string", Description: "Type of entity (chores, batteries, tasks)", Required: true, Enum: []string{"chores", "batteries", "tasks"}},
				{Name: "id", Type: "string", Description: "ID of the execution, charge cycle, or task", Required: true},
			},
			Handler: handleUndoAction,
		},
		{
			Name:        "get_meal_plan",
			Description: "Get your meal plan data from Grocy instance.",
			Action:      "Get meal plan",
			Method:      http.MethodGet,
			Path:        "/objects/meal_plan?query%5B%5D=day%3E%3D{startDate}&limit={days}",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "startDate", Type: "string", Description: "Optional start date in YYYY-MM-DD format. Defaults to today.",
					Default: func(now time.Time) any { return today(now) }},
				{Name: "days", Type: "number", Description: "Optional number of days to retrieve. Defaults to 7.", Default: constant(7.0)},
			},
		},
		listTool("get_products", "Get all products from your Grocy instance.", "Get all products", "/objects/products"),
		listTool("get_recipes", "Get all recipes from your Grocy instance.", "Get all recipes", "/objects/recipes"),
		listTool("get_stock", "Get current stock from your Grocy instance.", "Get current stock", "/stock"),
		listTool("get_batteries", "Get all batteries from your Grocy instance.", "Get all batteries", "/objects/batteries"),
		listTool("get_equipment", "Get all equipment from your Grocy instance.", "Get all equipment", "/objects/equipment"),
		{
			Name:        "add_shopping_list_item",
			Description: "Add an item to your shopping list.",
			Action:      "Add shopping list item",
			Method:      http.MethodPost,
			Path:        "/objects/shopping_list",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to add", Required: true},
				{Name: "amount", Type: "number", Description: "Amount to add (default: 1)", Default: constant(1.0)},
				{Name: "shoppingListId", Type: "number", Description: "ID of the shopping list to add to (default: 1)", Default: constant(1.0)},
				{Name: "note", Type: "string", Description: "Optional note for the shopping list item", Default: constant("")},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return map[string]any{
					"product_id":       args["productId"],
					"amount":           args["amount"],
					"shopping_list_id": args["shoppingListId"],
					"note":             args["note"],
				}
			},
		},
		{
			Name:        "add_recipe_to_meal_plan",
			Description: "Add a recipe to the meal plan.",
			Action:      "Add recipe to meal plan",
			Method:      http.MethodPost,
			Path:        "/objects/meal_plan",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "recipeId", Type: "number", Description: "ID of the recipe to add", Required: true},
				{Name: "day", Type: "string", Description: "Day to add the recipe to in YYYY-MM-DD format (default: today)",
					Default: func(now time.Time) any { return today(now) }},
				{Name: "servings", Type: "number", Description: "Number of servings (default: 1)", Default: constant(1.0)},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return map[string]any{
					"day":             args["day"],
					"recipe_id":       args["recipeId"],
					"recipe_servings": args["servings"],
					"type":            "recipe",
				}
			},
		},
		{
			Name:        "inventory_product",
			Description: "Track a product inventory (set current stock amount).",
			Action:      "Inventory product",
			Method:      http.MethodPost,
			Path:        "/stock/products/{productId}/inventory",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to inventory", Required: true},
				{Name: "newAmount", Type: "number", Description: "The new total amount in stock", Required: true},
				{Name: "bestBeforeDate", Type: "string", Description: "Best before date in YYYY-MM-DD format (default: today + 1 year)",
					Default: func(now time.Time) any { return nextYear(now) }},
				{Name: "locationId", Type: "number", Description: "ID of the location (optional)"},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				body := map[string]any{
					"new_amount":       args["newAmount"],
					"best_before_date": args["bestBeforeDate"],
					"transaction_type": "inventory-correction",
				}
				args.setIf(body, "location_id", "locationId")
				return optionalNote(args, body)
			},
		},
		{
			Name:        "create_recipe",
			Description: "Create a new recipe in your Grocy instance.",
			Action:      "Create recipe",
			Method:      http.MethodPost,
			Path:        "/objects/recipes",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "name", Type: "string", Description: "Name of the recipe", Required: true},
				{Name: "description", Type: "string", Description: "Description of the recipe", Default: constant("")},
				{Name: "servings", Type: "number", Description: "Number of servings (default: 1)", Default: constant(1.0)},
				{Name: "baseServingAmount", Type: "number", Description: "Base serving amount (default: 1)", Default: constant(1.0)},
				{Name: "desiredServings", Type: "number", Description: "Number of desired servings (default: 1)", Default: constant(1.0)},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return map[string]any{
					"name":             args["name"],
					"description":      args["description"],
					"base_servings":    args["servings"],
					"desired_servings": args["desiredServings"],
				}
			},
		},
		{
			Name:        "purchase_product",
			Description: "Track a product purchase in your Grocy instance.",
			Action:      "Purchase product",
			Method:      http.MethodPost,
			Path:        "/stock/products/{productId}/add",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to purchase", Required: true},
				{Name: "amount", Type: "number", Description: "Amount to purchase (default: 1)", Default: constant(1.0)},
				{Name: "bestBeforeDate", Type: "string", Description: "Best before date in YYYY-MM-DD format (default: today + 1 year)",
					Default: func(now time.Time) any { return nextYear(now) }},
				{Name: "price", Type: "number", Description: "Price of the purchase (optional)"},
				{Name: "storeId", Type: "number", Description: "ID of the store where purchased (optional)"},
				{Name: "locationId", Type: "number", Description: "ID of the storage location (optional)"},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				body := map[string]any{
					"amount":           args["amount"],
					"transaction_type": "purchase",
					"best_before_date": args["bestBeforeDate"],
				}
				if args.present("price") {
					body["price"] = args["price"]
				}
				args.setIf(body, "shopping_location_id", "storeId")
				args.setIf(body, "location_id", "locationId")
				return optionalNote(args, body)
			},
		},
		{
			Name:        "consume_product",
			Description: "Track consumption of a product in your Grocy instance.",
			Action:      "Consume product",
			Method:      http.MethodPost,
			Path:        "/stock/products/{productId}/consume",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to consume", Required: true},
				{Name: "amount", Type: "number", Description: "Amount to consume (default: 1)", Default: constant(1.0)},
				{Name: "spoiled", Type: "boolean", Description: "Whether the product is spoiled (default: false)"},
				{Name: "recipeId", Type: "number", Description: "ID of the recipe if consuming for a recipe (optional)"},
				{Name: "locationId", Type: "number", Description: "ID of the location to consume from (optional)"},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				spoiled := args.boolean("spoiled")
				transaction := "consume"
				if spoiled {
					transaction = "consume-spoiled"
				}
				body := map[string]any{
					"amount":           args["amount"],
					"transaction_type": transaction,
					"spoiled":          spoiled,
				}
				args.setIf(body, "recipe_id", "recipeId")
				args.setIf(body, "location_id", "locationId")
				return optionalNote(args, body)
			},
		},
		{
			Name:        "track_chore_execution",
			Description: "Track execution of a chore in your Grocy instance.",
			Method:      http.MethodPost,
			Path:        "chores/{choreId}/execute",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "choreId", Type: "number", Description: "ID of the chore that was executed", Required: true},
				{Name: "executedBy", Type: "number", Description: "ID of the user who executed the chore (optional)"},
				{Name: "tracked_time", Type: "string", Description: "When the chore was executed in YYYY-MM-DD HH:MM:SS format (default: now)",
					Default: func(now time.Time) any { return timestamp(now) }},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				body := map[string]any{"tracked_time": args["tracked_time"]}
				args.setIf(body, "done_by", "executedBy")
				return optionalNote(args, body)
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as completed in your Grocy instance.",
			Method:      http.MethodPost,
			Path:        "tasks/{taskId}/complete",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "taskId", Type: "number", Description: "ID of the task to complete", Required: true},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return optionalNote(args, map[string]any{})
			},
		},
		{
			Name:        "transfer_product",
			Description: "Transfer a product from one location to another in your Grocy instance.",
			Action:      "Transfer product",
			Method:      http.MethodPost,
			Path:        "/stock/products/{productId}/transfer",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to transfer", Required: true},
				{Name: "amount", Type: "number", Description: "Amount to transfer (default: 1)", Default: constant(1.0)},
				{Name: "locationIdFrom", Type: "number", Description: "ID of the source location (required)", Required: true},
				{Name: "locationIdTo", Type: "number", Description: "ID of the destination location (required)", Required: true},
				{Name: "note", Type: "string", Description: "Optional note for this transfer"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				body := map[string]any{
					"amount":           args["amount"],
					"location_id_from": args["locationIdFrom"],
					"location_id_to":   args["locationIdTo"],
					"transaction_type": "transfer",
				}
				return optionalNote(args, body)
			},
		},
		{
			Name:        "get_price_history",
			Description: "Get the price history of a product from your Grocy instance.",
			Action:      "Get product price history",
			Method:      http.MethodGet,
			Path:        "/stock/products/{productId}/price-history",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to get price history for", Required: true},
			},
		},
		{
			Name:        "open_product",
			Description: "Mark a product as opened in your Grocy instance.",
			Action:      "Open product",
			Method:      http.MethodPost,
			Path:        "/stock/products/{productId}/open",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to mark as opened (alternative to stockEntryId)"},
				{Name: "stockEntryId", Type: "number", Description: "ID of the specific stock entry to mark as opened (more precise than productId)"},
				{Name: "amount", Type: "number", Description: "Amount to mark as opened (default: 1)", Default: constant(1.0)},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Handler: handleOpenProduct,
		},
		{
			Name:        "get_stock_by_location",
			Description: "Get all stock from a specific location in your Grocy instance.",
			Method:      http.MethodGet,
			Path:        "stock?location_id={locationId}",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "locationId", Type: "number", Description: "ID of the location to get stock for", Required: true},
			},
		},
		{
			Name:        "consume_recipe",
			Description: "Consume all ingredients needed for a recipe in your Grocy instance.",
			Action:      "Consume recipe",
			Method:      http.MethodPost,
			Path:        "/recipes/{recipeId}/consume",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "recipeId", Type: "number", Description: "ID of the recipe to consume", Required: true},
				{Name: "servings", Type: "number", Description: "Number of servings to consume (default: 1)", Default: constant(1.0)},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return map[string]any{
					"recipe_id": args["recipeId"],
					"servings":  args["servings"],
				}
			},
		},
		{
			Name:        "charge_battery",
			Description: "Track charging of a battery in your Grocy instance.",
			Method:      http.MethodPost,
			Path:        "batteries/{batteryId}/charge",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "batteryId", Type: "number", Description: "ID of the battery that was charged", Required: true},
				{Name: "trackedTime", Type: "string", Description: "When the battery was charged in YYYY-MM-DD HH:MM:SS format (default: now)",
					Default: func(now time.Time) any { return timestamp(now) }},
				{Name: "note", Type: "string", Description: "Optional note"},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return optionalNote(args, map[string]any{"tracked_time": args["trackedTime"]})
			},
		},
		{
			Name:        "add_missing_products_to_shopping_list",
			Description: "Add all missing products for a recipe to your shopping list.",
			Method:      http.MethodPost,
			Path:        "recipes/{recipeId}/add-not-fulfilled-products-to-shoppinglist",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "recipeId", Type: "number", Description: "ID of the recipe to add missing products for", Required: true},
				{Name: "servings", Type: "number", Description: "Number of servings (default: 1)", Default: constant(1.0)},
				{Name: "shoppingListId", Type: "number", Description: "ID of the shopping list to add to (default: 1)", Default: constant(1.0)},
			},
			Body: func(args Args, _ time.Time) map[string]any {
				return map[string]any{
					"servings":         args["servings"],
					"shopping_list_id": args["shoppingListId"],
				}
			},
		},
		{
			Name:        "remove_shopping_list_item",
			Description: "Remove an item from your shopping list.",
			Action:      "Remove shopping list item",
			Method:      http.MethodDelete,
			Path:        "/objects/shopping_list/{shoppingListItemId}",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "shoppingListItemId", Type: "number", Description: "ID of the shopping list item to remove", Required: true},
			},
		},
		{
			Name:        "get_product_entries",
			Description: "Get all stock entries for a specific product in your Grocy instance.",
			Action:      "Get product entries",
			Method:      http.MethodGet,
			Path:        "/stock/products/{productId}/entries",
			Normalizer:  grocy.Strict,
			Params: []Param{
				{Name: "productId", Type: "number", Description: "ID of the product to get stock entries for", Required: true},
			},
		},
		{
			Name:        "call_grocy_api",
			Description: "Call a specific Grocy API endpoint with custom parameters.",
			Normalizer:  grocy.Raw,
			Relay:       true,
			Params: []Param{
				{Name: "endpoint", Type: "string", Description: `Grocy API endpoint to call (e.g., "objects/products"). Do not include /api/ prefix.`, Required: true},
				{Name: "method", Type: "string", Description: "HTTP method to use", Enum: []string{"GET", "POST", "PUT", "DELETE"}, Default: constant(http.MethodGet)},
				{Name: "body", Type: "object", Description: "Optional request body for POST/PUT requests"},
			},
			Handler: handleCallAPI,
		},
		{
			Name:       "test_request",
			Describe:   describeTestRequest,
			Normalizer: grocy.Strict,
			Params: []Param{
				{Name: "method", Type: "string", Description: "HTTP method to use", Required: true, Enum: []string{"GET", "POST", "PUT", "DELETE"}},
				{Name: "endpoint", Type: "string", Description: `Endpoint path (e.g. "/users"). Do not include full URLs - only the path.`, Required: true},
				{Name: "body", Type: "object", Description: "Optional request body for POST/PUT requests"},
				{Name: "headers", Type: "object", Description: "Optional request headers for one-time use."},
			},
			Handler: handleTestRequest,
		},
		{
			Name:        "check_grocy_version",
			Description: "Check the Grocy server version and whether this server supports it. Also reports the grocy-mcp build.",
			Action:      "Check Grocy version",
			Method:      http.MethodGet,
			Path:        "/system/info",
			Normalizer:  grocy.Strict,
			Handler:     handleCheckVersion,
		},
	}
}

// listTool is a parameterless GET against a fixed endpoint.
func listTool(name, description, action, path string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Action:      action,
		Method:      http.MethodGet,
		Path:        path,
		Normalizer:  grocy.Strict,
	}
}
