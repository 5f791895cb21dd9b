package cli

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/spokewith/internal/call"
	"github.com/roach88/spokewith/internal/store"
)

// callResult is the output of log, edit and delete: a one-line confirmation
// in text mode and the affected row in JSON mode.
type callResult struct {
	Verb string
	Row  store.Row[call.Call]
}

func (r callResult) String() string {
	return fmt.Sprintf("%s call %d", r.Verb, r.Row.ID)
}

func (r callResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Row)
}
