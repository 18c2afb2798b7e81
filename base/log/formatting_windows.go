package log

const (
	rightArrow = ">"
)

// Windows consoles are not assumed to support ANSI colors.
func (s Severity) color() string {
	return ""
}

func endColor() string {
	return ""
}
