package command

// Result is the uniform outcome of one Execute call. Exactly one Result is
// produced per call, never partially filled: a success carries no error and
// a zero exit code; a failure carries a message and the exit code to report
// (1 unless a shell invocation supplied its own).
type Result struct {
	Success  bool
	Error    string
	ExitCode int
}

// ok returns a successful result.
func ok() Result {
	return Result{Success: true}
}

// fail returns a failure result with exit code 1.
func fail(message string) Result {
	return Result{Success: false, Error: message, ExitCode: 1}
}

// failCode returns a failure result with an explicit exit code.
func failCode(message string, code int) Result {
	if code == 0 {
		code = 1
	}
	return Result{Success: false, Error: message, ExitCode: code}
}
