package domain

// Result is the outcome of one committed transition attempt. On an
// error-routed failure To holds the on-error state the field was committed
// to; the original action error travels separately as the returned error.
type Result struct {
	Field   string
	Name    string
	From    State
	To      State
	Outcome any
}
