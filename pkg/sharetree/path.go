package sharetree

import "strings"

func trimSlashes(s string) string {
	return strings.Trim(s, "/")
}

func splitAdc(trimmed string) []string {
	return strings.Split(trimmed, "/")
}

func toLowerSegment(s string) string {
	return caseFolder.String(s)
}

func joinSegments(segments []string) string {
	return strings.Join(segments, "/")
}
