package cmd

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	sim "github.com/availability-sim/availability-sim/sim"
)

//go:embed params.cue
var paramsSchema string

// LoadParams returns sim.DefaultParams overlaid with the values in the YAML
// file at path. An empty path yields the defaults unchanged.
//
// The file is validated against the embedded CUE schema first, then decoded
// with strict field checking so typos are reported instead of ignored.
func LoadParams(path string) (sim.Params, error) {
	params := sim.DefaultParams()
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("reading params file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		logrus.Warnf("Params file %s is empty, using defaults", path)
		return params, nil
	}

	if err := validateParamsSchema(path, data); err != nil {
		return params, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return params, fmt.Errorf("parsing params file %s: %w", path, err)
	}
	if err := params.Validate(); err != nil {
		return params, err
	}

	logrus.Debugf("Loaded params from %s: %+v", path, params)
	return params, nil
}

// validateParamsSchema unifies the YAML document with the #Params definition.
func validateParamsSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(paramsSchema, cue.Filename("params.cue"))
	if schema.Err() != nil {
		return fmt.Errorf("compiling params schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Params"))

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("cannot read YAML params: %w", err)
	}
	value := ctx.BuildFile(file)
	if value.Err() != nil {
		return fmt.Errorf("cannot build YAML params: %w", value.Err())
	}

	final := def.Unify(value)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("params schema validation failed: %w", err)
	}
	return nil
}
