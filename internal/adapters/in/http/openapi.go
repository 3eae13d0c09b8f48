package http

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPISpec []byte

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("parse openapi: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi: %w", err)
	}
	return doc, nil
}

type swaggerDoc struct {
	body string
}

func (d swaggerDoc) ReadDoc() string {
	return d.body
}

var registerOnce sync.Once

// registerSwagger hands doc to the swag registry echo-swagger reads from. The
// registry is process-wide and keeps the first document.
func registerSwagger(doc *openapi3.T) error {
	body, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi: %w", err)
	}
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{body: string(body)})
	})
	return nil
}
