package server

import "net/http"

// RouteHandler is a function type for HTTP handlers.
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]RouteHandler

// RouteByMethod routes requests based on HTTP method. HEAD falls back to the
// GET handler.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok && r.Method == http.MethodHead {
		handler, ok = routes[http.MethodGet]
	}
	if !ok {
		w.Header().Set("Allow", allowed(routes))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

func allowed(routes MethodRouter) string {
	var out string
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete} {
		_, ok := routes[m]
		if m == http.MethodHead {
			_, ok = routes[http.MethodGet]
		}
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += m
	}
	return out
}
