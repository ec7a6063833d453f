// Package bench runs suites of requests through the processor and summarizes
// their costs.
package bench

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"

	"github.com/calebcase/cubench/instruction"
)

// Error is the error class for benchmark failures.
var Error = errs.Class("bench")

//go:embed default_suite.yaml
var defaultSuite []byte

// Suite is a named list of cases.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// Case is one request to benchmark.
type Case struct {
	// Name identifies the case within its suite.
	Name string `yaml:"name"`

	// Instruction is the snake case instruction name.
	Instruction string `yaml:"instruction"`

	// Args are the operands; see instruction.Parse.
	Args map[string]string `yaml:"args,omitempty"`

	// Expect, when set, is the required result value.
	Expect string `yaml:"expect,omitempty"`
}

// Build parses the case into an instruction.
func (c Case) Build() (instruction.Instruction, error) {
	return instruction.Parse(c.Instruction, c.Args)
}

// DefaultSuite returns the built in suite.
func DefaultSuite() *Suite {
	s, err := ParseSuite(defaultSuite)
	if err != nil {
		panic(err)
	}

	return s
}

// LoadSuite reads a suite from a YAML file.
func LoadSuite(path string) (_ *Suite, err error) {
	defer Error.WrapP(&err)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseSuite(data)
}

// ParseSuite decodes and validates a YAML suite. Unknown fields are rejected.
func ParseSuite(data []byte) (_ *Suite, err error) {
	defer Error.WrapP(&err)

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Suite

	err = dec.Decode(&s)
	if err != nil {
		return nil, err
	}

	err = s.Validate()
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks that every case is named uniquely and builds.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return Error.New("suite name is required")
	}

	if len(s.Cases) == 0 {
		return Error.New("suite %q has no cases", s.Name)
	}

	seen := map[string]bool{}

	for i, c := range s.Cases {
		if c.Name == "" {
			return Error.New("case %d: name is required", i)
		}

		if seen[c.Name] {
			return Error.New("case %q: duplicate name", c.Name)
		}

		seen[c.Name] = true

		_, err := c.Build()
		if err != nil {
			return Error.New("case %q: %v", c.Name, err)
		}
	}

	return nil
}
