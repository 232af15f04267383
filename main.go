package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"

	"github.com/BDNK1/nodeflow/runtime"
	"github.com/BDNK1/nodeflow/runtime/expression"
	"github.com/BDNK1/nodeflow/runtime/registry"
)

// ServerConfig is the demo server's configuration, read from config.yaml when
// present.
type ServerConfig struct {
	Addr         string `yaml:"addr" default:":8080" validate:"hostname_port"`
	BaseURL      string `yaml:"baseUrl" default:"http://localhost:8080" validate:"url_format"`
	NodeTypesDir string `yaml:"nodeTypesDir" default:"nodetypes"`
	WorkflowFile string `yaml:"workflow" default:"workflow.yaml"`
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Error preparing config: %v", err)
	}

	reg, err := registry.LoadDir(cfg.NodeTypesDir)
	if err != nil {
		log.Fatalf("Error loading node types: %v", err)
	}
	logger.Info("Node types loaded", "types", reg.Names())

	wf, err := loadWorkflow(cfg.WorkflowFile)
	if err != nil {
		log.Fatalf("Error loading workflow: %v", err)
	}

	eval := expression.NewEvaluator()
	run := runtime.NewRunExecutionData()
	g := gin.Default()

	for _, node := range wf.Nodes {
		nodeType, _ := reg.Lookup(node.Type)

		// Accumulated findings block activation of the node's webhooks.
		if issues := runtime.NodeIssues(nodeType, node); issues.HasAny() {
			for _, line := range runtime.IssueLines(issues, node, nodeTypeFields(nodeType)) {
				logger.Warn(line, "node", node.Name)
			}
			continue
		}
		if node.Disabled || nodeType == nil {
			continue
		}

		reg.EnsureWebhookID(node)
		routes, warnings := runtime.NodeWebhooks(wf, node, nodeType, eval)
		for _, w := range warnings {
			logger.Warn("Skipping webhook",
				"node", w.Node,
				"webhook", w.Webhook,
				"field", w.Field,
				"reason", w.Reason)
		}
		for _, route := range routes {
			logger.Info("Registering webhook",
				"method", route.Method,
				"url", runtime.NodeWebhookURL(cfg.BaseURL, wf.ID, node, route.Path, true))
		}
		runtime.RegisterWebhookRoutes(g, routes, webhookHandler(run, node, nodeType))
	}

	if err := g.Run(cfg.Addr); err != nil {
		log.Fatalf("Error running server: %v", err)
	}
}

// webhookHandler resolves the node's effective parameters and answers with
// the wrapped output the executor contract expects.
func webhookHandler(run *runtime.RunExecutionData, node *runtime.Node, nodeType *runtime.NodeType) runtime.WebhookHandler {
	return func(c *gin.Context, route runtime.WebhookRoute, request map[string]any) {
		params, err := runtime.ResolveParameters(nodeType.Fields, node.Parameters, runtime.ResolveOptions{
			ReturnDefaults: true,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error resolving parameters: " + err.Error()})
			return
		}

		ctx, err := runtime.GetContext(run, runtime.ScopeNode, node)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		ctx["lastRequest"] = request

		item := map[string]any{
			"webhook":    route.Path,
			"parameters": params,
			"request":    request,
		}
		c.JSON(http.StatusOK, gin.H{"output": runtime.PrepareOutput([]map[string]any{item}, 0)})
	}
}

func loadConfig(file string) (*ServerConfig, error) {
	raw := map[string]any{}
	if data, err := os.ReadFile(file); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("error unmarshalling YAML: %w", err)
		}
	}

	cfg := &ServerConfig{}
	if err := runtime.InitializeConfig(cfg, raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadWorkflow(file string) (*runtime.Workflow, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	var wf runtime.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("error unmarshalling YAML: %w", err)
	}
	return &wf, nil
}

func nodeTypeFields(nodeType *runtime.NodeType) []*runtime.FieldSchema {
	if nodeType == nil {
		return nil
	}
	return nodeType.Fields
}
