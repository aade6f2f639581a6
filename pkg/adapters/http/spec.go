package http

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawDocument []byte

var (
	docOnce sync.Once
	doc     *openapi3.T
	docErr  error
)

// Document returns the parsed and validated API description.
func Document() (*openapi3.T, error) {
	docOnce.Do(func() {
		loader := openapi3.NewLoader()
		d, err := loader.LoadFromData(rawDocument)
		if err != nil {
			docErr = fmt.Errorf("failed to load api document: %w", err)
			return
		}
		if err := d.Validate(loader.Context); err != nil {
			docErr = fmt.Errorf("invalid api document: %w", err)
			return
		}
		doc = d
	})
	return doc, docErr
}
