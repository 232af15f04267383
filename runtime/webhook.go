package runtime

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BDNK1/nodeflow/runtime/expression"
)

// WebhookRoute is one derived external HTTP route for a node webhook. Path is
// usable directly as a registration key in an HTTP router.
type WebhookRoute struct {
	Method     string
	Path       string
	Node       string
	WorkflowID string
	WebhookID  string // empty when the node carries no identifier
}

// RouteWarning reports a webhook descriptor that was skipped during
// derivation. Warnings travel with the result so callers choose the logging
// policy; a skipped descriptor never aborts derivation of the node's other
// webhooks.
type RouteWarning struct {
	Node    string
	Webhook string
	Field   string
	Reason  string
}

// NodeWebhooks derives the externally registerable routes for node.
// Descriptor fields are resolved through eval in internal mode with an empty
// auxiliary context; a descriptor whose path or method cannot be resolved is
// skipped with a warning.
func NodeWebhooks(wf *Workflow, node *Node, nodeType *NodeType, eval ExpressionEvaluator) ([]WebhookRoute, []RouteWarning) {
	return deriveWebhooks(wf, node, nodeType, eval, false)
}

// NodeWebhooksBasic derives routes without the restart filter and without the
// dynamic-segment identifier override, for lightweight enumeration.
func NodeWebhooksBasic(wf *Workflow, node *Node, nodeType *NodeType, eval ExpressionEvaluator) ([]WebhookRoute, []RouteWarning) {
	return deriveWebhooks(wf, node, nodeType, eval, true)
}

func deriveWebhooks(wf *Workflow, node *Node, nodeType *NodeType, eval ExpressionEvaluator, basic bool) ([]WebhookRoute, []RouteWarning) {
	if node.Disabled || nodeType == nil || len(nodeType.Webhooks) == 0 {
		return nil, nil
	}

	workflowID := wf.ID
	if workflowID == "" {
		workflowID = UnsavedWorkflowID
	}
	env := map[string]any{ParametersKey: node.Parameters}

	var routes []WebhookRoute
	var warnings []RouteWarning
	for _, desc := range nodeType.Webhooks {
		rawPath := eval.ResolveSimple(desc.Path, expression.ModeInternal, env, nil)
		if rawPath == nil {
			warnings = append(warnings, RouteWarning{
				Node:    node.Name,
				Webhook: desc.Name,
				Field:   "path",
				Reason:  "webhook path could not be resolved",
			})
			continue
		}
		path := trimSlashes(fmt.Sprintf("%v", rawPath))

		method := any("GET")
		if desc.HTTPMethod != nil {
			method = eval.ResolveSimple(desc.HTTPMethod, expression.ModeInternal, env, nil)
		}
		if method == nil {
			warnings = append(warnings, RouteWarning{
				Node:    node.Name,
				Webhook: desc.Name,
				Field:   "httpMethod",
				Reason:  "webhook method could not be resolved",
			})
			continue
		}

		isFullPath, _ := eval.ResolveSimple(desc.IsFullPath, expression.ModeInternal, env, false).(bool)

		finalPath := path
		if basic {
			finalPath = composeWebhookPath(workflowID, node, path, isFullPath, false, false)
		} else {
			restart, _ := eval.ResolveSimple(desc.RestartWebhook, expression.ModeInternal, env, false).(bool)
			finalPath = composeWebhookPath(workflowID, node, path, isFullPath, restart, true)
		}

		routes = append(routes, WebhookRoute{
			Method:     strings.ToUpper(fmt.Sprintf("%v", method)),
			Path:       finalPath,
			Node:       node.Name,
			WorkflowID: workflowID,
			WebhookID:  node.WebhookID,
		})
	}

	return routes, warnings
}

// WebhookPath composes the final externally visible path for one node
// webhook from its resolved raw path.
func WebhookPath(workflowID string, node *Node, path string, isFullPath, restart bool) string {
	return composeWebhookPath(workflowID, node, path, isFullPath, restart, true)
}

// NodeWebhookURL joins a base URL with the derived webhook path, applying the
// same dynamic-segment identifier override as route derivation.
func NodeWebhookURL(baseURL, workflowID string, node *Node, path string, isFullPath bool) string {
	path = trimSlashes(path)
	return strings.TrimSuffix(baseURL, "/") + "/" + composeWebhookPath(workflowID, node, path, isFullPath, false, true)
}

// composeWebhookPath implements the path identity rules. A restart webhook's
// path is already globally unique and is used verbatim. Without a webhook id
// the path is namespaced by workflow id and lowercased url-encoded node name.
// With an id, full-path mode uses the path verbatim, except that a path
// starting with a dynamic segment still needs the id prefix so the router can
// disambiguate it (skipped in the basic variant via dynamicOverride).
func composeWebhookPath(workflowID string, node *Node, path string, isFullPath, restart, dynamicOverride bool) string {
	if restart {
		return path
	}
	if node.WebhookID == "" {
		return fmt.Sprintf("%s/%s/%s", workflowID, url.PathEscape(strings.ToLower(node.Name)), path)
	}
	if isFullPath && !(dynamicOverride && strings.HasPrefix(path, DynamicSegmentMarker)) {
		return path
	}
	return node.WebhookID + "/" + path
}

// trimSlashes removes a single leading and a single trailing slash.
func trimSlashes(path string) string {
	path = strings.TrimPrefix(path, "/")
	return strings.TrimSuffix(path, "/")
}
