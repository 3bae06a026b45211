package chainvault

import "encoding/json"

// MarshalJSON encodes the Container as a JSON array of its current
// elements, snapshotting the same way Iter does: a concurrent Append
// during marshaling may or may not be included, but the result is
// always a well-formed array reflecting some instant between the call
// and its return. No third-party codec in the example corpus is
// pulled in for this: encoding/json is what every example repo that
// needs JSON already uses for it, so there is nothing to wire here
// instead of it (see DESIGN.md).
func (c *Container[T]) MarshalJSON() ([]byte, error) {
	it := c.Iter()
	values := make([]T, 0, it.Len())
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		values = append(values, v)
	}
	return json.Marshal(values)
}

// UnmarshalJSON replaces the Container's contents with the decoded
// JSON array, as a single Clear-then-Extend. It follows Container's
// usual generation semantics: Iterators obtained before the call keep
// observing whatever they already pinned.
func (c *Container[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	c.Extend(values)
	return nil
}
