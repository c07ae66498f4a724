package printing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erp/posprint/internal/domain/shared"
)

// Built-in step names
const (
	StepImage       = "image"
	StepHeader      = "header"
	StepDetails     = "details"
	StepPayments    = "payments"
	StepResume      = "resume"
	StepSales       = "sales"
	StepExpenses    = "expenses"
	StepSignature   = "signature"
	StepCreatedAt   = "createdAt"
	StepProcessedBy = "processedBy"
	StepPoweredBy   = "poweredBy"
	StepLinebreak   = "linebreak"
	StepFinish      = "finish"
	StepDrawLine    = "drawLine"
)

// NodeKind tags a schema node as a step or a group
type NodeKind uint8

const (
	NodeStep NodeKind = iota
	NodeGroup
)

// Node is one element of a schema: either a named step or an ordered group
// of nested nodes. A string encodes a step and an array encodes a group.
type Node struct {
	Kind     NodeKind
	Step     string
	Children []Node
}

// Step returns a leaf node naming a drawing step
func Step(name string) Node {
	return Node{Kind: NodeStep, Step: name}
}

// Group returns a node grouping the given children in order
func Group(children ...Node) Node {
	return Node{Kind: NodeGroup, Children: children}
}

// Steps turns a list of names into leaf nodes
func Steps(names ...string) []Node {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = Step(name)
	}
	return nodes
}

// IsGroup returns true for group nodes
func (n Node) IsGroup() bool {
	return n.Kind == NodeGroup
}

// MarshalJSON implements json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsGroup() {
		children := n.Children
		if children == nil {
			children = []Node{}
		}
		return json.Marshal(children)
	}
	return json.Marshal(n.Step)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("schema node: empty value")
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("schema node: %w", err)
		}
		*n = Step(name)
		return nil
	case '[':
		var children []Node
		if err := json.Unmarshal(data, &children); err != nil {
			return err
		}
		*n = Group(children...)
		return nil
	default:
		return fmt.Errorf("schema node: expected step name or list, got %s", string(data))
	}
}

// MarshalYAML implements yaml.Marshaler
func (n Node) MarshalYAML() (interface{}, error) {
	if n.IsGroup() {
		return n.Children, nil
	}
	return n.Step, nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = Step(value.Value)
		return nil
	case yaml.SequenceNode:
		children := make([]Node, 0, len(value.Content))
		for _, item := range value.Content {
			var child Node
			if err := child.UnmarshalYAML(item); err != nil {
				return err
			}
			children = append(children, child)
		}
		*n = Group(children...)
		return nil
	default:
		return fmt.Errorf("schema node: line %d: expected step name or list", value.Line)
	}
}

// Schema is a named, ordered layout of drawing steps
type Schema struct {
	Name         string  `json:"name" yaml:"name"`
	DocumentType DocType `json:"document_type,omitempty" yaml:"document_type,omitempty"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty"`
	Steps        []Node  `json:"steps" yaml:"steps"`
}

// NewSchema creates a schema from its nodes
func NewSchema(name string, nodes ...Node) Schema {
	return Schema{Name: name, Steps: nodes}
}

// Leaves returns the step names in traversal order, groups flattened
func (s Schema) Leaves() []string {
	var out []string
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.IsGroup() {
				walk(n.Children)
				continue
			}
			out = append(out, n.Step)
		}
	}
	walk(s.Steps)
	return out
}

// Validate checks the schema is usable. Unknown step names are not an
// error here; they are reported while rendering.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_SCHEMA", "Schema name cannot be empty")
	}
	if s.DocumentType != "" && !s.DocumentType.IsValid() {
		return shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: "+s.DocumentType.String())
	}
	if len(s.Steps) == 0 {
		return shared.NewDomainError("INVALID_SCHEMA", "Schema must contain at least one step")
	}
	for _, leaf := range s.Leaves() {
		if strings.TrimSpace(leaf) == "" {
			return shared.NewDomainError("INVALID_SCHEMA", "Schema contains an empty step name")
		}
	}
	return nil
}

// ParseSchemaJSON decodes a schema document; a bare array is accepted as
// an unnamed list of steps.
func ParseSchemaJSON(data []byte) (Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var nodes []Node
		if err := json.Unmarshal(trimmed, &nodes); err != nil {
			return Schema{}, err
		}
		return NewSchema("inline", nodes...), nil
	}
	var s Schema
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// ParseSchemaYAML decodes a YAML schema document
func ParseSchemaYAML(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Reference schema names
const (
	SchemaCashflowRegular = "cashflow_regular"
	SchemaCashflowClosing = "cashflow_closing"
)

// CashflowRegularSchema is the layout of a single cash drawer movement
func CashflowRegularSchema() Schema {
	return Schema{
		Name:         SchemaCashflowRegular,
		DocumentType: DocTypeCashflowRegular,
		Description:  "Cash drawer movement slip",
		Steps: Steps(
			StepImage,
			StepHeader,
			StepDetails,
			StepPayments,
			StepLinebreak,
			StepSignature,
			StepLinebreak,
			StepCreatedAt,
			StepLinebreak,
			StepProcessedBy,
			StepPoweredBy,
			StepLinebreak,
		),
	}
}

// CashflowClosingSchema is the layout of the end of day closing report
func CashflowClosingSchema() Schema {
	return Schema{
		Name:         SchemaCashflowClosing,
		DocumentType: DocTypeCashflowClosing,
		Description:  "End of day closing report",
		Steps: Steps(
			StepImage,
			StepHeader,
			StepDetails,
			StepLinebreak,
			StepResume,
			StepLinebreak,
			StepSales,
			StepLinebreak,
			StepExpenses,
			StepLinebreak,
			StepSignature,
			StepLinebreak,
			StepCreatedAt,
			StepLinebreak,
			StepProcessedBy,
			StepPoweredBy,
			StepLinebreak,
		),
	}
}

// ReferenceSchema returns the built-in schema for a document type
func ReferenceSchema(docType DocType) (Schema, bool) {
	switch docType {
	case DocTypeCashflowRegular:
		return CashflowRegularSchema(), true
	case DocTypeCashflowClosing:
		return CashflowClosingSchema(), true
	}
	return Schema{}, false
}
