package config

// SecretStringValue replaces secrets in every textual representation.
const SecretStringValue = "<secret>"

// SecretString holds values (store tokens) which must never end up in logs,
// configuration dumps or debug reports.
type SecretString string

// Value returns actual secret, use it only where secret is consumed.
func (s SecretString) Value() string {
	return string(s)
}

func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// MarshalJSON marshals SecretString to JSON making sure that actual value is not visible.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

// MarshalYAML marshals SecretString to YAML making sure that actual value is not visible.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
