package sim

import "fmt"

// A WiringError reports an illegal topology change, such as driving an input
// from a second wire or connecting two outputs together. It is fatal only to
// the connect operation that raised it; the rest of the graph stays valid.
type WiringError struct {
	Reason string
}

func (e *WiringError) Error() string {
	return "wiring: " + e.Reason
}

// NewWiringError creates a WiringError with a formatted reason.
func NewWiringError(format string, args ...interface{}) *WiringError {
	return &WiringError{Reason: fmt.Sprintf(format, args...)}
}

// A MappingError reports a duplicate or unresolvable node id at load time.
type MappingError struct {
	Reason string
}

func (e *MappingError) Error() string {
	return "mapping: " + e.Reason
}

// NewMappingError creates a MappingError with a formatted reason.
func NewMappingError(format string, args ...interface{}) *MappingError {
	return &MappingError{Reason: fmt.Sprintf(format, args...)}
}

// A ConfigurationError reports an invalid parameter, such as a negative delay
// or an unrecognized trigger value.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// NewConfigurationError creates a ConfigurationError with a formatted reason.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
