package types

// Setting value types.
const (
	ValueTypeBool  = "bool"
	ValueTypeInt   = "int"
	ValueTypeFloat = "float"
	ValueTypeStr   = "str"
)

// validValueTypes is the set of recognized setting value types.
var validValueTypes = map[string]bool{
	ValueTypeBool:  true,
	ValueTypeInt:   true,
	ValueTypeFloat: true,
	ValueTypeStr:   true,
}

// IsValueType reports whether t is a recognized setting value type.
func IsValueType(t string) bool {
	return validValueTypes[t]
}

// Setting is a persisted application preference stored as text with its
// value type.
type Setting struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}
