package httputil

import "encoding/json"

// OptionalString distinguishes an absent JSON field from an explicit null.
//   - absent:        Present=false
//   - null:          Present=true, Value=nil
//   - "" or "text":  Present=true, Value set
//
// Nullable document fields (refinedNote, companyName, projectName, clientMessage)
// use it so a PATCH can clear a field without touching the others.
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON only runs for fields present in the payload.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}

// Cleared reports an explicit null.
func (o OptionalString) Cleared() bool {
	return o.Present && o.Value == nil
}
