package serializer

import "fmt"

// NewSerializer returns the serializer registered under name ("json" or "gob")
func NewSerializer(name string) (IRPCSerializer, error) {
	switch name {
	case "json", "":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer: %s. must be one of json, gob", name)
	}
}
