// Package clean contains the transformers applied to extracted tables before
// they are materialized. Transformers mutate tables in place and run in a
// fixed chain; cleaning is limited to hygiene (whitespace, accents, type
// coercion) and never recomputes business values.
package clean

import "olistetl/internal/dataset"

// Transformer is one step of the cleaning chain.
type Transformer interface {
	Apply(t *dataset.Table) error
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, stopping at the first error.
func (c Chain) Apply(t *dataset.Table) error {
	for _, tr := range c {
		if err := tr.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the chain applied to every CSV table: whitespace trim,
// accent folding on categorical text, then schema-driven type coercion.
func Default() Chain {
	return Chain{TrimSpace{}, FoldAccents{}, Coerce{}}
}
