package logger

// FormatError exposes the error chain formatting for white-box tests.
func FormatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}
