// File: models/optional.go
package models

import "encoding/json"

// OptionalString is a nullable string that also remembers whether it was present
// in the decoded JSON at all.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only invoked for keys present in the payload, including null.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// SetString returns an OptionalString holding s.
func SetString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// SetNull returns an OptionalString that clears the field.
func SetNull() OptionalString {
	return OptionalString{Set: true}
}
