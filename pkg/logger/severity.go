package logger

import "strings"

// Severity :
// Describes the various available log severities that can be
// used in conjunction with the logger interface.
type Severity int

const (
	Verbose Severity = iota
	Debug
	Info
	Notice
	Warning
	Error
	Critical
	Fatal
)

// Name :
// Provides a string value from the input level identifier. This
// is used when actually producing the logs for a given level.
//
// Returns the string representing the input log level.
func (s Severity) Name() string {
	return [...]string{
		"verbose",
		"debug",
		"info",
		"notice",
		"warning",
		"error",
		"critical",
		"fatal",
	}[s]
}

// colorCode :
// Provides the ANSI color code used to display the severity in
// the standard output. This is used as a visual way to tell the
// severities apart in a logging device.
//
// Returns the escape sequence to switch the output to the color
// associated to this severity.
func (s Severity) colorCode() string {
	code := [...]string{
		"90",
		"34",
		"32",
		"36",
		"33",
		"31",
		"31",
		"31",
	}[s]
	return "\033[1;" + code + "m"
}

// String :
// Provides a complete string representing the input severity and
// which includes some color formatting to display it with a color
// that matches its importance.
//
// Returns the string allowing to format the display device to
// print this severity.
func (s Severity) String() string {
	return s.colorCode() + "[" + s.Name() + "]" + "\033[0m"
}

// fromString :
// Converts the input string into the corresponding severity value.
// In case the input string does not correspond to a known value a
// `verbose` severity is returned. The case is not important (so
// `Debug`, `DeBug` or `debug` are all converted to `Debug`).
//
// The `level` represents the string to convert to a severity.
//
// Returns the severity associated to the input string.
func fromString(level string) Severity {
	switch strings.ToLower(level) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "notice":
		return Notice
	case "warning":
		return Warning
	case "error":
		return Error
	case "critical":
		return Critical
	case "fatal":
		return Fatal
	default:
		return Verbose
	}
}
