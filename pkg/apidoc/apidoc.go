// Package apidoc describes a form's HTTP endpoints as an OpenAPI 3 document.
package apidoc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formserve/pkg/schema"
)

// Version is reported in the document info block.
const Version = "1.0.0"

const (
	mediaJSON      = "application/json"
	mediaForm      = "application/x-www-form-urlencoded"
	mediaMultipart = "multipart/form-data"
	mediaHTML      = "text/html"

	submissionSchema     = "Submission"
	submissionFormSchema = "SubmissionForm"
)

// numberPattern mirrors what the number validator accepts when the value
// arrives as a form-encoded string.
const numberPattern = `^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`

// Routes are the mounted paths of the form endpoints.
type Routes struct {
	Form   string
	Submit string
}

// Build returns a validated OpenAPI document for form served at routes.
func Build(form schema.FormSchema, routes Routes) (*openapi3.T, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(routes.Form, "/") || !strings.HasPrefix(routes.Submit, "/") {
		return nil, errors.New("apidoc: routes must be absolute paths")
	}

	jsonBody := bodySchema(form, true)
	formBody := bodySchema(form, false)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   form.Title,
			Version: Version,
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				submissionSchema:     openapi3.NewSchemaRef("", jsonBody),
				submissionFormSchema: openapi3.NewSchemaRef("", formBody),
			},
		},
	}

	formItem := &openapi3.PathItem{Get: formOperation(form)}
	submitItem := &openapi3.PathItem{Post: submitOperation(form, jsonBody, formBody)}
	if routes.Form == routes.Submit {
		formItem.Post = submitItem.Post
		doc.Paths = openapi3.NewPaths(openapi3.WithPath(routes.Form, formItem))
	} else {
		doc.Paths = openapi3.NewPaths(
			openapi3.WithPath(routes.Form, formItem),
			openapi3.WithPath(routes.Submit, submitItem),
		)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("apidoc: validate document: %w", err)
	}
	return doc, nil
}

func formOperation(form schema.FormSchema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "getForm"
	op.Summary = "Render " + form.Title
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, htmlResponse("The rendered form")),
	)
	return op
}

func submitOperation(form schema.FormSchema, jsonBody, formBody *openapi3.Schema) *openapi3.Operation {
	content := openapi3.Content{
		mediaForm:      openapi3.NewMediaType().WithSchemaRef(componentRef(submissionFormSchema, formBody)),
		mediaMultipart: openapi3.NewMediaType().WithSchemaRef(componentRef(submissionFormSchema, formBody)),
		mediaJSON:      openapi3.NewMediaType().WithSchemaRef(componentRef(submissionSchema, jsonBody)),
	}

	op := openapi3.NewOperation()
	op.OperationID = "submitForm"
	op.Summary = "Submit " + form.Title
	op.Description = "Validates every field and appends one record to the response log. " +
		"JSON is returned when the client prefers application/json over text/html."
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}

	stored := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("stored")).
		WithProperty("timestamp", openapi3.NewDateTimeSchema())
	stored.Required = []string{"status", "timestamp"}

	invalid := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("invalid")).
		WithProperty("errors", openapi3.NewObjectSchema().WithAdditionalProperties(
			openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
		))
	invalid.Required = []string{"status", "errors"}

	failed := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("error")).
		WithProperty("error", openapi3.NewStringSchema())
	failed.Required = []string{"status", "error"}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, htmlResponse("Submission stored, confirmation page")),
		openapi3.WithStatus(http.StatusCreated, jsonResponse("Submission stored", stored)),
		openapi3.WithStatus(http.StatusUnprocessableEntity, mixedResponse("Validation failed, nothing stored", invalid)),
		openapi3.WithStatus(http.StatusInternalServerError, mixedResponse("Failed to write storage file", failed)),
	)
	return op
}

// bodySchema builds the request schema. Form encodings carry every value as
// a string; JSON bodies may send numbers as numbers.
func bodySchema(form schema.FormSchema, typedNumbers bool) *openapi3.Schema {
	body := openapi3.NewObjectSchema()
	var required []string
	for _, field := range form.Fields {
		body.WithProperty(field.Name, fieldSchema(form, field, typedNumbers))
		if field.Required() {
			required = append(required, field.Name)
		}
	}
	body.Required = required
	return body
}

func fieldSchema(form schema.FormSchema, field schema.FieldSchema, typedNumbers bool) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.AnswerType {
	case schema.AnswerNumber:
		if typedNumbers {
			s = openapi3.NewFloat64Schema()
		} else {
			s = openapi3.NewStringSchema().WithPattern(numberPattern)
		}
	case schema.AnswerEmail:
		s = openapi3.NewStringSchema().WithFormat("email")
	case schema.AnswerURL:
		s = openapi3.NewStringSchema().WithFormat("uri")
	case schema.AnswerPassword:
		s = openapi3.NewStringSchema().WithFormat("password")
	case schema.AnswerDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case schema.AnswerSelect, schema.AnswerCheckbox:
		s = openapi3.NewStringSchema()
		if options := enumValues(field); len(options) > 0 {
			s = s.WithEnum(options...)
		}
	default:
		s = openapi3.NewStringSchema()
	}

	if field.AnswerType != schema.AnswerNumber || !typedNumbers {
		s = s.WithMaxLength(int64(form.LimitFor(field)))
	}
	s.Title = field.Label()
	s.Description = field.Description
	if field.AnswerType.UsesOptions() && field.DefaultValue() != "" {
		s.Default = *field.Default
	}
	return s
}

func enumValues(field schema.FieldSchema) []any {
	options := field.Options
	if len(options) == 0 && field.AnswerType == schema.AnswerCheckbox {
		options = []string{"on"}
	}
	out := make([]any, 0, len(options))
	for _, option := range options {
		out = append(out, option)
	}
	return out
}

func componentRef(name string, value *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, value)
}

func htmlResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{mediaHTML}))}
}

func jsonResponse(description string, body *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchema(body)}
}

func mixedResponse(description string, body *openapi3.Schema) *openapi3.ResponseRef {
	content := openapi3.Content{
		mediaHTML: openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema()),
		mediaJSON: openapi3.NewMediaType().WithSchema(body),
	}
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithContent(content)}
}
