// Package openapi builds form documents out of OpenAPI operations, so the
// same documents that describe an API can supply the model trees bindings
// attach to. Only the request body of an operation matters here.
package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// DocumentForOperation loads an OpenAPI payload and converts the request body
// of the operation with the given id into a form document ready for
// schema.Build.
func DocumentForOperation(ctx context.Context, raw []byte, operationID string) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	if len(raw) == 0 {
		return schema.Document{}, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return schema.Document{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Document{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return schema.Document{}, errors.New("openapi: document does not contain any paths")
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Document{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.Document{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	doc := schema.Document{
		Name:   schema.SanitizeText(operationID),
		Schema: convertSchema(body),
	}
	if doc.Schema.Title == "" {
		doc.Schema.Title = schema.SanitizeText(operation.Summary)
	}
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

func convertSchema(ref *openapi3.SchemaRef) schema.Schema {
	if ref == nil || ref.Value == nil {
		return schema.Schema{}
	}
	src := ref.Value

	out := schema.Schema{
		Type:        firstSchemaType(src.Type),
		Title:       schema.SanitizeText(src.Title),
		Description: schema.SanitizeText(src.Description),
		Default:     src.Default,
		Pattern:     src.Pattern,
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}
	if src.MinItems != 0 {
		out.MinItems = int(src.MinItems)
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
