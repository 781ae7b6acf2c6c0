package grocy

import (
	"regexp"
	"strings"
)

// APIRoot is the path prefix every Grocy endpoint lives under.
const APIRoot = "/api"

var (
	fullURLPattern   = regexp.MustCompile(`(?i)^(https?://|www\.)`)
	rawPrefixPattern = regexp.MustCompile(`^/?(api/)?`)
)

// Normalizer turns a caller-supplied endpoint into an absolute Grocy path.
// baseURL only feeds error messages.
type Normalizer func(baseURL, endpoint string) (string, error)

// Strict rejects full URLs and always yields exactly one /api prefix.
var Strict Normalizer = normalizeStrict

// Raw strips a literal leading "/api/" token and re-adds the prefix. Query
// strings and trailing slashes pass through.
var Raw Normalizer = normalizeRaw

func normalizeStrict(baseURL, endpoint string) (string, error) {
	if fullURLPattern.MatchString(endpoint) {
		return "", InvalidParameter(
			"Invalid endpoint format. Do not include full URLs. Instead of \"%s\", use just the path (e.g. \"/api/users\"). "+
				"Your path will be resolved to: %s/%s. "+
				"To test a different base URL, update the GROCY_BASE_URL environment variable.",
			endpoint, strings.TrimRight(baseURL, "/"), strings.Trim(endpoint, "/"))
	}

	trimmed := strings.Trim(endpoint, "/")
	for {
		if trimmed == "api" {
			trimmed = ""
			break
		}
		if !strings.HasPrefix(trimmed, "api/") {
			break
		}
		trimmed = strings.TrimLeft(trimmed[len("api/"):], "/")
	}
	if trimmed == "" {
		return APIRoot, nil
	}
	return APIRoot + "/" + trimmed, nil
}

func normalizeRaw(_, endpoint string) (string, error) {
	path := "/" + rawPrefixPattern.ReplaceAllString(endpoint, "")
	if strings.HasPrefix(path, APIRoot+"/") {
		return path, nil
	}
	return APIRoot + path, nil
}

// EndpointArg extracts the "endpoint" argument, failing when it is absent or
// not a string.
func EndpointArg(args map[string]any) (string, error) {
	v, ok := args["endpoint"]
	if !ok || v == nil {
		return "", InvalidParameter("Missing required parameter: endpoint")
	}
	s, ok := v.(string)
	if !ok {
		return "", InvalidParameter("endpoint must be a string, received type: %s", jsType(v))
	}
	if s == "" {
		return "", InvalidParameter("Missing required parameter: endpoint")
	}
	return s, nil
}
