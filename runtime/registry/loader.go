package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BDNK1/nodeflow/runtime"
)

// nodeTypeDocument is the YAML shape of one node type definition. A document
// may declare a shared base fragment; its named fields overlay the fragment
// field-by-field.
type nodeTypeDocument struct {
	Name        string                       `yaml:"name"`
	Base        []*runtime.FieldSchema       `yaml:"base,omitempty"`
	Fields      []*runtime.FieldSchema       `yaml:"fields"`
	Webhooks    []*runtime.WebhookDescriptor `yaml:"webhooks,omitempty"`
	Credentials []string                     `yaml:"credentials,omitempty"`
}

// LoadDir reads every *.yaml node type document in dir into a new registry.
func LoadDir(dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	r := New()
	for _, file := range files {
		nodeType, err := loadNodeType(file)
		if err != nil {
			return nil, err
		}
		r.Register(nodeType)
	}
	return r, nil
}

func loadNodeType(file string) (*runtime.NodeType, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	var doc nodeTypeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshalling YAML: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("node type in %s has no name", file)
	}

	fields := doc.Fields
	if len(doc.Base) > 0 {
		fields = runtime.MergeFieldSchemas(doc.Base, doc.Fields)
	}
	if err := validateFields(fields); err != nil {
		return nil, fmt.Errorf("node type %q: %w", doc.Name, err)
	}

	return &runtime.NodeType{
		Name:        doc.Name,
		Fields:      fields,
		Webhooks:    doc.Webhooks,
		Credentials: doc.Credentials,
	}, nil
}

// validateFields rejects unknown field kinds at load time so resolution never
// meets an undeclared kind.
func validateFields(fields []*runtime.FieldSchema) error {
	for _, field := range fields {
		switch field.Kind {
		case runtime.KindString, runtime.KindNumber, runtime.KindBoolean,
			runtime.KindOptions, runtime.KindMultiOptions, runtime.KindDateTime,
			runtime.KindJSON:
		case runtime.KindCollection:
			if err := validateFields(field.Options); err != nil {
				return err
			}
		case runtime.KindFixedCollection:
			for _, group := range field.Alternatives {
				if group.Name == "" {
					return fmt.Errorf("fixedCollection %q has an unnamed alternative", field.Name)
				}
				if err := validateFields(group.Fields); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("field %q has unknown kind %q", field.Name, field.Kind)
		}
	}
	return nil
}
