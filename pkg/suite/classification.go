package suite

// Classification declares the outcome a suite is expected to produce.
type Classification string

const (
	// Pass is the default classification, the suite is expected to pass.
	Pass Classification = "pass"
	// Fail inverts the verdict, the suite is expected to fail.
	Fail Classification = "fail"
)

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	return c == Pass || c == Fail
}

// String returns the upper-case form used in log messages.
func (c Classification) String() string {
	switch c {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	default:
		return string(c)
	}
}
