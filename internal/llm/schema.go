package llm

import (
	"encoding/json"
	"sort"
)

// SchemaType is a JSON Schema primitive type.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is the provider-neutral response-shape constraint. It marshals as
// a JSON Schema document; providers with their own schema types convert it.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Object builds an object schema in which every listed property is required.
func Object(props map[string]*Schema) *Schema {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	sort.Strings(required)
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// String builds a string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// ArrayOf builds an array schema with the given item schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// PropertyNames returns the object's property names in sorted order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON renders the schema as a JSON Schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	return json.Marshal((*plain)(s))
}
