package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

//go:embed schema/tetris.schema.json
var tetrisSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("tetris.schema.json", tetrisSchemaJSON)
	})
	return schema, schemaErr
}

// validateDocument checks raw YAML against the embedded JSON Schema.
func validateDocument(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("config: cannot compile schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: cannot parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}

	// Round trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: document is not JSON compatible: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("config: document is not JSON compatible: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks invariants the schema cannot express.
func (c TetrisConfig) Validate() error {
	var errs []error

	if c.Grid.Width < engine.MinWidth || c.Grid.Width > engine.MaxWidth {
		errs = append(errs, fmt.Errorf("grid width %d out of range [%d, %d]", c.Grid.Width, engine.MinWidth, engine.MaxWidth))
	}
	if c.Grid.Height < engine.MinHeight || c.Grid.Height > engine.MaxHeight {
		errs = append(errs, fmt.Errorf("grid height %d out of range [%d, %d]", c.Grid.Height, engine.MinHeight, engine.MaxHeight))
	}
	if c.Timing.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %d", c.Timing.TickRate))
	}

	if len(c.Timing.DropTable) == 0 {
		errs = append(errs, errors.New("drop table is empty"))
	}
	for i, v := range c.Timing.DropTable {
		if v == 0 {
			errs = append(errs, fmt.Errorf("drop table entry %d is zero", i+1))
		}
		if i > 0 && v > c.Timing.DropTable[i-1] {
			errs = append(errs, fmt.Errorf("drop table entry %d (%d) is slower than level %d (%d)", i+1, v, i, c.Timing.DropTable[i-1]))
		}
	}

	if _, ok := ParseDifficulty(string(c.Difficulty)); !ok {
		errs = append(errs, fmt.Errorf("unknown difficulty %q", c.Difficulty))
	}
	if c.Spectate.Enabled && c.Spectate.Addr == "" {
		errs = append(errs, errors.New("spectate enabled without an address"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
