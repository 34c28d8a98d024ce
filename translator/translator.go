package translator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	once       sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(ctx)
	})
	return translator, initErr
}

// Report is the result of checking a fragment shader.
type Report struct {
	// Variables are the interface variables the translator reported, sorted.
	Variables []string
	// Code is the translated ESSL source.
	Code string
}

// Check validates a fragment shader without a GL context by translating it
// from WebGL2 to ESSL.
func Check(ctx context.Context, code string) (*Report, error) {
	t, err := GetTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	fs, err := t.TranslateShader(code, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatESSL)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}
	report := &Report{Code: fs.Code}
	for name := range fs.Variables {
		report.Variables = append(report.Variables, name)
	}
	sort.Strings(report.Variables)
	return report, nil
}
