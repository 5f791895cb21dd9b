// Package call defines the Call record logged by the spokewith CLI.
//
// Field rules live in call.cue and are checked with the CUE SDK, so the
// schema stays readable as data. Go code adds the one rule CUE cannot express
// cheaply: At must be a real calendar date.
package call

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/spokewith/internal/codec"
)

//go:embed call.cue
var schemaSource string

// Call is one logged call.
type Call struct {
	With    string   `json:"with,omitempty"`
	At      string   `json:"at,omitempty"`
	Text    string   `json:"text"`
	Minutes int      `json:"minutes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// DateLayout is the format of Call.At.
const DateLayout = time.DateOnly

// schema holds the compiled #Call definition. A cue.Context is not safe for
// concurrent use, so every use goes through mu.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

func loadSchema() error {
	schema.once.Do(func() {
		schema.ctx = cuecontext.New()
		v := schema.ctx.CompileString(schemaSource, cue.Filename("call.cue"))
		if err := v.Err(); err != nil {
			schema.err = fmt.Errorf("compile call schema: %w", err)
			return
		}
		schema.def = v.LookupPath(cue.ParsePath("#Call"))
		if !schema.def.Exists() {
			schema.err = fmt.Errorf("compile call schema: #Call not defined")
		}
	})
	return schema.err
}

// Validate checks c against the #Call schema.
func (c Call) Validate() error {
	if err := loadSchema(); err != nil {
		return err
	}

	data, err := codec.Marshal(c)
	if err != nil {
		return fmt.Errorf("invalid call: %w", err)
	}

	schema.mu.Lock()
	v := schema.ctx.CompileBytes(data, cue.Filename("call.json"))
	err = v.Err()
	if err == nil {
		err = schema.def.Unify(v).Validate(cue.Concrete(true))
	}
	schema.mu.Unlock()

	if err != nil {
		return fmt.Errorf("invalid call: %s", formatCUEError(err))
	}

	if c.At != "" {
		if _, err := time.Parse(DateLayout, c.At); err != nil {
			return fmt.Errorf("invalid call: at %q is not a calendar date", c.At)
		}
	}
	return nil
}

// formatCUEError flattens CUE's error list into one line, dropping the
// definition prefix so messages name payload fields.
func formatCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := strings.TrimPrefix(strings.Join(e.Path(), "."), "#Call."); path != "" && path != "#Call" {
			msg = path + ": " + msg
		}
		if !contains(msgs, msg) {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
