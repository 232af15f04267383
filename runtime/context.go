package runtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ContextScope selects which scratch context a running node receives.
type ContextScope string

const (
	// ScopeFlow is the context shared by every node of the run.
	ScopeFlow ContextScope = "flow"
	// ScopeNode is the context private to one named node.
	ScopeNode ContextScope = "node"
)

// ExecutionData owns the per-run scratch contexts handed to running nodes.
// Slots are created lazily on first access; the mutex guards the
// check-then-create step when nodes execute concurrently within a run.
type ExecutionData struct {
	mu          sync.Mutex
	ContextData map[string]map[string]any
}

// RunExecutionData is the execution-data container for one workflow run.
// Context entries live for the run's duration and are owned by this object.
type RunExecutionData struct {
	RunID         string
	ExecutionData *ExecutionData
}

// NewRunExecutionData returns an initialized container with a fresh run id.
func NewRunExecutionData() *RunExecutionData {
	return &RunExecutionData{
		RunID: uuid.New().String(),
		ExecutionData: &ExecutionData{
			ContextData: make(map[string]map[string]any),
		},
	}
}

// GetContext returns the mutable key-value context for the given scope,
// creating it on first access. It fails when the run's execution data was
// never initialized, when scope is ScopeNode without a node, or for an
// unrecognized scope.
func GetContext(run *RunExecutionData, scope ContextScope, node *Node) (map[string]any, error) {
	if run == nil || run.ExecutionData == nil {
		return nil, &ConfigError{
			Code:    ErrorCodeContextUninitialized,
			Message: "execution data is not initialized",
		}
	}

	var key string
	switch scope {
	case ScopeFlow:
		key = string(ScopeFlow)
	case ScopeNode:
		if node == nil {
			return nil, &ConfigError{
				Code:    ErrorCodeContextMissingNode,
				Message: "the node context requires a node",
			}
		}
		key = "node:" + node.Name
	default:
		return nil, &ConfigError{
			Code:    ErrorCodeContextUnknownScope,
			Message: fmt.Sprintf("unknown context scope %q", scope),
		}
	}

	ed := run.ExecutionData
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.ContextData == nil {
		ed.ContextData = make(map[string]map[string]any)
	}
	ctx, ok := ed.ContextData[key]
	if !ok {
		ctx = make(map[string]any)
		ed.ContextData[key] = ctx
	}
	return ctx, nil
}
