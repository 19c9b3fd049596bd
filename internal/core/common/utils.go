package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := response

	// Find first '{' and last '}'
	start := -1
	end := -1

	for i, c := range jsonStr {
		if c == '{' {
			start = i
			break
		}
	}
	for i := len(jsonStr) - 1; i >= 0; i-- {
		if c := jsonStr[i]; c == '}' {
			end = i + 1
			break
		}
	}

	if start != -1 && end != -1 && start < end {
		jsonStr = jsonStr[start:end]
	} else if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// RepairJSON trims a truncated JSON document back to its last structurally
// complete element and closes every container left open. It is a single
// bounded pass: the result is either parseable or the caller gives up.
func RepairJSON(response string) string {
	start := strings.IndexByte(response, '{')
	if start == -1 {
		return response
	}
	s := response[start:]

	// Walk once recording where values end cleanly. A cut at one of these
	// positions leaves only well-formed members behind.
	inString := false
	escaped := false
	depth := 0
	lastValueEnd := -1 // index just past a '}' , ']' or closing quote of a value string
	lastOpen := -1     // index just past a '{' or '[' (fallback: empty container)
	expectingValue := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
				if expectingValue {
					lastValueEnd = i + 1
					expectingValue = false
				}
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ':':
			expectingValue = true
		case '{', '[':
			depth++
			lastOpen = i + 1
			expectingValue = false
		case '}', ']':
			depth--
			lastValueEnd = i + 1
			expectingValue = false
		case ',':
			expectingValue = false
		case 't', 'f', 'n': // true / false / null
			if expectingValue {
				for _, lit := range []string{"true", "false", "null"} {
					if strings.HasPrefix(s[i:], lit) {
						lastValueEnd = i + len(lit)
						i += len(lit) - 1
						expectingValue = false
						break
					}
				}
			}
		}
	}

	if depth == 0 && !inString {
		return s
	}

	cut := lastValueEnd
	if cut == -1 {
		cut = lastOpen
	}
	if cut == -1 {
		return s
	}

	trimmed := strings.TrimRight(s[:cut], " \t\r\n")
	// A dangling key ("name": cut after the key string) or a trailing comma
	// would leave an incomplete member once we close up; strip back to the
	// previous complete element.
	for {
		t := strings.TrimRight(trimmed, " \t\r\n")
		if strings.HasSuffix(t, ",") || strings.HasSuffix(t, ":") {
			trimmed = t[:len(t)-1]
			continue
		}
		if strings.HasSuffix(t, "\"") {
			// Could be a key missing its ':'; check the char before the
			// string. Rewind past the string literal.
			j := len(t) - 2
			for j >= 0 && !(t[j] == '"' && (j == 0 || t[j-1] != '\\')) {
				j--
			}
			if j > 0 {
				prev := strings.TrimRight(t[:j], " \t\r\n")
				if strings.HasSuffix(prev, "{") || strings.HasSuffix(prev, ",") {
					trimmed = prev
					continue
				}
			}
		}
		trimmed = t
		break
	}
	trimmed = strings.TrimRight(trimmed, ", \t\r\n")

	// Recompute what is still open in the kept prefix and close it.
	var stack []byte
	inString = false
	escaped = false
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(trimmed)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
