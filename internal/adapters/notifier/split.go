package notifier

import "strings"

const messageLimit = 4096

// splitMessage breaks text into chunks within the Bot API message limit,
// preferring newline boundaries so list blocks stay whole.
func splitMessage(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len([]rune(trimmed)) <= messageLimit {
		return []string{trimmed}
	}

	var (
		parts []string
		buf   []rune
	)
	flush := func() {
		chunk := strings.Trim(string(buf), "\n")
		if chunk != "" {
			parts = append(parts, chunk)
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(trimmed, "\n") {
		lineRunes := []rune(line)
		// A single line over the limit is cut mid-line.
		for len(lineRunes) > messageLimit {
			flush()
			parts = append(parts, string(lineRunes[:messageLimit]))
			lineRunes = lineRunes[messageLimit:]
		}
		if len(buf) > 0 && len(buf)+1+len(lineRunes) > messageLimit {
			flush()
		}
		if len(buf) > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, lineRunes...)
	}
	flush()

	if len(parts) == 0 {
		return []string{trimmed}
	}
	return parts
}
