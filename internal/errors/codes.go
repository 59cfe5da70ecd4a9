package errors

// Common error codes
const (
	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrInvalidModel    ErrorCode = "invalid_model"
	ErrInvalidWindow   ErrorCode = "invalid_window"
	ErrMissingPort     ErrorCode = "missing_port"

	// Transport errors
	ErrSerialOpen    ErrorCode = "serial_open_failed"
	ErrTransportRead ErrorCode = "transport_read_failed"

	// Aggregation errors
	ErrEmptyWindow ErrorCode = "empty_window"

	// Output errors
	ErrEmitRecord ErrorCode = "emit_record_failed"

	// Metrics errors
	ErrMetricsServe ErrorCode = "metrics_serve_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInvalidModel:    "Invalid sensor model",
	ErrInvalidWindow:   "Invalid averaging window",
	ErrMissingPort:     "No serial port configured",
	ErrSerialOpen:      "Failed to open serial port",
	ErrTransportRead:   "Failed to read from serial port",
	ErrEmptyWindow:     "No data frames collected in the given time span",
	ErrEmitRecord:      "Failed to write output record",
	ErrMetricsServe:    "Metrics listener failed",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
