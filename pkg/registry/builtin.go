package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed operators.yml
var builtinDescriptors []byte

// Config tunes the built-in registry.
type Config struct {
	// Precision is the number of decimal places kept by `/` and fractional `^`.
	Precision int32
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{Precision: DefaultPrecision}
}

type descriptorFile struct {
	Operators []operatorDisk `yaml:"operators"`
	Functions []functionDisk `yaml:"functions"`
}

type operatorDisk struct {
	Name          string       `yaml:"name"`
	Precedence    int          `yaml:"precedence"`
	Associativity string       `yaml:"associativity"`
	Variants      variantsDisk `yaml:"variants"`
}

type variantsDisk struct {
	Unary  string `yaml:"unary"`
	Binary string `yaml:"binary"`
}

type functionDisk struct {
	Name   string `yaml:"name"`
	Effect string `yaml:"effect"`
}

// New builds the built-in registry.
func New(cfg Config) (*Registry, error) {
	b := NewBuilder().SetPrecision(cfg.Precision)
	if err := loadDescriptors(b, bytes.NewReader(builtinDescriptors), newEffectTable(cfg.Precision)); err != nil {
		return nil, err
	}
	return b.Build()
}

// Default returns the built-in registry with default settings. It panics if
// the embedded descriptors are invalid.
func Default() *Registry {
	reg, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return reg
}

// loadDescriptors decodes a descriptor document and appends its entries to b,
// binding effect keys through table.
func loadDescriptors(b *Builder, r io.Reader, table *effectTable) error {
	var raw descriptorFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("registry: parse descriptors: %w", err)
	}
	var errs []error
	for _, d := range raw.Operators {
		op, err := d.toOperator(table)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.AddOperator(op)
	}
	for _, d := range raw.Functions {
		effect, ok := table.functions[d.Effect]
		if !ok {
			errs = append(errs, fmt.Errorf("registry: function %q: unknown effect %q", d.Name, d.Effect))
			continue
		}
		b.AddFunction(&Function{Name: d.Name, Effect: effect})
	}
	return errors.Join(errs...)
}

func (d operatorDisk) toOperator(table *effectTable) (*Operator, error) {
	assoc, err := ParseAssociativity(d.Associativity)
	if err != nil {
		return nil, fmt.Errorf("registry: operator %q: %w", d.Name, err)
	}
	op := &Operator{Name: d.Name, Precedence: d.Precedence, Associativity: assoc}
	if d.Variants.Unary != "" {
		effect, ok := table.unary[d.Variants.Unary]
		if !ok {
			return nil, fmt.Errorf("registry: operator %q: unknown unary effect %q", d.Name, d.Variants.Unary)
		}
		op.Effects = append(op.Effects, effect)
	}
	if d.Variants.Binary != "" {
		effect, ok := table.binary[d.Variants.Binary]
		if !ok {
			return nil, fmt.Errorf("registry: operator %q: unknown binary effect %q", d.Name, d.Variants.Binary)
		}
		op.Effects = append(op.Effects, effect)
	}
	return op, nil
}
