// internal/domain/models/rowid.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RowID is the identifier the data store assigns to a row.
//
// The REST backend hands out numeric ids and the Mongo backend hands out
// ObjectID hex strings; both decode into the same string form so handlers
// and URLs never care which backend is configured.
type RowID string

// IsZero reports whether the id is unset.
func (id RowID) IsZero() bool { return id == "" }

func (id RowID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (id *RowID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("row id: %w", err)
		}
		*id = RowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("row id: %w", err)
	}
	*id = RowID(n.String())
	return nil
}
