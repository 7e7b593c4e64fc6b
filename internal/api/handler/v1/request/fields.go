package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

var errNotObject = errors.New("request body must be a JSON object")

// DecodeFields reads the body as a loose JSON object. Numbers are kept as
// json.Number so integer parsing stays exact.
func DecodeFields(ctx *gin.Context) (map[string]any, error) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("dec.Decode -> %w", err)
	}

	return fields, nil
}
