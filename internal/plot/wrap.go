package plot

import "strings"

// MeasureFunc reports the rendered pixel width of a string.
type MeasureFunc func(s string) float64

// WrapText splits s into the minimum number of lines such that no line's
// measured width exceeds maxWidth, breaking greedily at spaces. A single word
// wider than maxWidth occupies its own line rather than being split.
func WrapText(measure MeasureFunc, s string, maxWidth float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 1)
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}
