package runtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives the matched route and the extracted request data
// when a registered webhook is hit.
type WebhookHandler func(c *gin.Context, route WebhookRoute, request map[string]any)

// RegisterWebhookRoutes registers each derived route on the gin engine.
// Routes with a method gin cannot serve are skipped with a warning.
func RegisterWebhookRoutes(g *gin.Engine, routes []WebhookRoute, handler WebhookHandler) {
	for _, route := range routes {
		path := "/" + route.Path
		h := handleWebhook(route, handler)

		switch strings.ToUpper(route.Method) {
		case http.MethodGet:
			g.GET(path, h)
		case http.MethodPost:
			g.POST(path, h)
		case http.MethodPut:
			g.PUT(path, h)
		case http.MethodPatch:
			g.PATCH(path, h)
		case http.MethodDelete:
			g.DELETE(path, h)
		case http.MethodHead:
			g.HEAD(path, h)
		default:
			slog.Warn("Unsupported webhook method",
				"node", route.Node,
				"method", route.Method,
				"path", path)
		}
	}
}

func handleWebhook(route WebhookRoute, handler WebhookHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(c, route, extractRequestData(c))
	}
}

// extractRequestData collects headers, query parameters, path parameters and
// a parsed JSON body into the value tree handed to the handler. The raw body
// is kept alongside for signature verification and similar use cases.
func extractRequestData(c *gin.Context) map[string]any {
	request := map[string]any{}

	headers := map[string]any{}
	for name := range c.Request.Header {
		headers[strings.ToLower(name)] = c.GetHeader(name)
	}
	request["headers"] = headers

	query := map[string]any{}
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}
	request["query"] = query

	if len(c.Params) > 0 {
		params := map[string]any{}
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		request["params"] = params
	}

	if c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err == nil && len(body) > 0 {
			request["rawBody"] = string(body)
			var parsed any
			if err := json.Unmarshal(body, &parsed); err == nil {
				request["body"] = parsed
			}
		}
	}

	return request
}
