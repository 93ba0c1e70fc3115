package pipeline

// Reporter receives short status messages as a pipeline moves through its
// stages, plus a final completion message. Implementations must not block;
// reporting is best-effort and entirely optional.
type Reporter interface {
	// Step announces the stage the pipeline is entering.
	Step(msg string)
	// Done announces successful completion.
	Done(msg string)
}

type nopReporter struct{}

func (nopReporter) Step(string) {}
func (nopReporter) Done(string) {}

// NopReporter returns a Reporter that discards everything.
func NopReporter() Reporter { return nopReporter{} }
