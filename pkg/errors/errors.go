// Unified error handling for the ebike-g4 host
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
	"runtime"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Runtime errors
	ErrRuntime     ErrorCode = "RUNTIME"
	ErrRuntimeInit ErrorCode = "RUNTIME_INIT"

	// Hardware errors
	ErrHardwareGPIO   ErrorCode = "HARDWARE_GPIO"
	ErrHardwareADC    ErrorCode = "HARDWARE_ADC"
	ErrHardwareSerial ErrorCode = "HARDWARE_SERIAL"

	// Module-specific errors
	ErrModuleThrottle ErrorCode = "MODULE_THROTTLE"
	ErrModulePAS      ErrorCode = "MODULE_PAS"
)

// HostError is the unified error type for the host system
type HostError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *HostError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *HostError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *HostError) SetSection(section string) *HostError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *HostError) SetOption(option string) *HostError {
	e.Option = option
	return e
}

// SetContext adds additional context
func (e *HostError) SetContext(key string, value interface{}) *HostError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new HostError
func New(code ErrorCode, message string) *HostError {
	return &HostError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *HostError {
	return &HostError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Config errors

// ConfigSectionError creates an error for a missing config section
func ConfigSectionError(section string) *HostError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetSection(section)
}

// ConfigValidationError creates an error for config validation failure
func ConfigValidationError(section, option string, reason string) *HostError {
	return New(ErrConfigValidation, fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetSection(section).
		SetOption(option)
}

// Runtime errors

// RuntimeError creates a general runtime error
func RuntimeError(message string) *HostError {
	return New(ErrRuntime, message)
}

// RuntimeErrorInit creates an error for initialization failure
func RuntimeErrorInit(component string, reason string) *HostError {
	return New(ErrRuntimeInit, fmt.Sprintf("failed to initialize %s: %s", component, reason))
}

// Hardware errors

// GPIOError wraps a pin configuration or read failure
func GPIOError(pin string, err error) *HostError {
	return Wrap(err, ErrHardwareGPIO, fmt.Sprintf("gpio %s", pin))
}

// ADCError wraps an analog sampling failure
func ADCError(channel int, err error) *HostError {
	return Wrap(err, ErrHardwareADC, fmt.Sprintf("adc channel %d", channel)).
		SetContext("channel", channel)
}

// SerialError wraps a serial link failure
func SerialError(device string, err error) *HostError {
	return Wrap(err, ErrHardwareSerial, fmt.Sprintf("serial %s", device))
}

// Module-specific errors

// ThrottleError creates a throttle module error
func ThrottleError(channel int, message string) *HostError {
	return New(ErrModuleThrottle, message).SetContext("channel", channel)
}

// PASError creates a pedal-assist module error
func PASError(channel int, message string) *HostError {
	return New(ErrModulePAS, message).SetContext("channel", channel)
}

// RecoverPanic safely recovers from panic and converts to error
func RecoverPanic() *HostError {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = RuntimeError(fmt.Sprintf("panic: %s", x))
		case error:
			err = RuntimeError(x.Error())
		case runtime.Error:
			err = RuntimeError(x.Error())
		default:
			err = RuntimeError(fmt.Sprintf("panic: %v", x))
		}
		return err.(*HostError)
	}
	return nil
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if hostErr, ok := err.(*HostError); ok {
		return hostErr.Code == code
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation)
}

// IsHardware checks if error is a hardware error
func IsHardware(err error) bool {
	return Is(err, ErrHardwareGPIO) ||
		Is(err, ErrHardwareADC) ||
		Is(err, ErrHardwareSerial)
}
