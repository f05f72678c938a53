package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/born-ml/ragged/layout"
	"gopkg.in/yaml.v3"
)

// result is what the CLI prints for one operation.
type result struct {
	Type         string            `json:"type" yaml:"type"`
	Length       int               `json:"length,omitempty" yaml:"length,omitempty"`
	Form         *layout.Form      `json:"form,omitempty" yaml:"form,omitempty"`
	Buffers      []string          `json:"buffers,omitempty" yaml:"buffers,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Values       any               `json:"values,omitempty" yaml:"values,omitempty"`
	TouchedShape []string          `json:"touched_shape,omitempty" yaml:"touched_shape,omitempty,flow"`
	TouchedData  []string          `json:"touched_data,omitempty" yaml:"touched_data,omitempty,flow"`
}

func newResult(out any) (*result, error) {
	array, ok := out.(layout.Content)
	if !ok {
		return &result{Type: fmt.Sprintf("%T", out), Values: out}, nil
	}
	form := array.Form()
	res := &result{Type: form.Type(), Form: form}
	if array.Backend().KnownData() {
		values, err := layout.ToList(array)
		if err != nil {
			return nil, err
		}
		res.Values = values
	}
	return res, nil
}

func writeResult(w io.Writer, format string, res *result) error {
	var (
		raw []byte
		err error
	)
	switch format {
	case "yaml":
		raw, err = yaml.Marshal(res)
	case "json":
		raw, err = json.MarshalIndent(res, "", "  ")
	default:
		return fmt.Errorf("unknown format %q, expected yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if format == "json" {
		raw = append(raw, '\n')
	}
	_, err = w.Write(raw)
	return err
}
