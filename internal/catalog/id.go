package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an entity id. Servers built on graphene-sqlalchemy expose integer
// primary keys as the GraphQL ID scalar, which is serialized as a string;
// others send a plain number. Both decode to the same value.
type ID int

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("id %q is not numeric", s)
		}
		*id = ID(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id %s is not numeric", b)
	}
	*id = ID(n)
	return nil
}
