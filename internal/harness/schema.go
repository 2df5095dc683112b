package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaVal  cue.Value
	schemaErr  error
)

func scenarioSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaCtx, schemaVal, schemaErr
}

// SchemaError reports every schema violation in a scenario document.
type SchemaError struct {
	Source string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: scenario does not match schema:\n%s", e.Source, e.Detail)
}

// ValidateScenario checks a decoded YAML document against the scenario
// schema. doc is what yaml.v3 produces when decoding into an any.
func ValidateScenario(source string, doc any) error {
	ctx, schema, err := scenarioSchema()
	if err != nil {
		return err
	}

	// A cue context is not safe for concurrent use.
	schemaMu.Lock()
	defer schemaMu.Unlock()

	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return &SchemaError{Source: source, Detail: errors.Details(err, nil)}
	}
	if err := schema.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Source: source, Detail: errors.Details(err, nil)}
	}
	return nil
}

var schemaMu sync.Mutex
