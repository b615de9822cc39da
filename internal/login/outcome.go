package login

// Outcome is the result of a step in the login flow: the user is always redirected to
// Target, and Reason explains why the flow was abandoned, if it was
type Outcome struct {
	Target string
	Reason error
}

func Ok(target string) Outcome {
	return Outcome{Target: target}
}

func Rejected(target string, reason error) Outcome {
	return Outcome{Target: target, Reason: reason}
}

func (o Outcome) IsRejected() bool {
	return o.Reason != nil
}
