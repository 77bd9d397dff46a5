// Package textscan provides offset-preserving lexical scans over raw SQL text.
//
// The central contract is length preservation: Mask and StripComments return
// strings of exactly the same length as their input, so offsets computed on
// the masked view can be used to slice the original text. Every downstream
// rewriter and the dialect detector depend on this property.
package textscan

// maskByte returns the masking replacement for a consumed byte. Newlines,
// carriage returns and tabs are kept so line-oriented scans still work on
// masked text; everything else becomes a plain space.
func maskByte(b byte) byte {
	switch b {
	case '\n', '\r', '\t':
		return b
	default:
		return ' '
	}
}

// Mask blanks the contents of string literals and comments, keeping the
// quote delimiters visible and every offset identical to the input.
//
// Handled regions:
//   - block comments /* ... */ (fully blanked, delimiters included)
//   - line comments starting with -- or # (blanked to end of line)
//   - single- and double-quoted strings, where a doubled quote ('' or "")
//     is an escaped quote and does not terminate the literal
//
// Unterminated regions blank to end of input; Mask never fails.
func Mask(s string) string {
	out := []byte(s)
	i := 0
	n := len(s)

	for i < n {
		c := s[i]

		// Block comment.
		if c == '/' && i+1 < n && s[i+1] == '*' {
			out[i] = maskByte(s[i])
			out[i+1] = maskByte(s[i+1])
			i += 2
			for i < n {
				if s[i] == '*' && i+1 < n && s[i+1] == '/' {
					out[i] = maskByte(s[i])
					out[i+1] = maskByte(s[i+1])
					i += 2
					break
				}
				out[i] = maskByte(s[i])
				i++
			}
			continue
		}

		// Line comment: -- or #.
		if (c == '-' && i+1 < n && s[i+1] == '-') || c == '#' {
			for i < n && s[i] != '\n' {
				out[i] = maskByte(s[i])
				i++
			}
			continue
		}

		// String literal. The delimiters stay visible so masked text still
		// shows where a literal sits; only the content is blanked.
		if c == '\'' || c == '"' {
			quote := c
			i++
			for i < n {
				if s[i] == quote {
					if i+1 < n && s[i+1] == quote {
						// Escaped quote, part of the literal.
						out[i] = maskByte(s[i])
						out[i+1] = maskByte(s[i+1])
						i += 2
						continue
					}
					i++ // closing quote stays
					break
				}
				out[i] = maskByte(s[i])
				i++
			}
			continue
		}

		i++
	}

	return string(out)
}

// StripComments blanks comment content only, leaving string literals
// untouched. Length is preserved. The scanner still tracks strings so that
// comment markers inside literals are not stripped.
func StripComments(s string) string {
	out := []byte(s)
	i := 0
	n := len(s)

	for i < n {
		c := s[i]

		if c == '/' && i+1 < n && s[i+1] == '*' {
			out[i] = maskByte(s[i])
			out[i+1] = maskByte(s[i+1])
			i += 2
			for i < n {
				if s[i] == '*' && i+1 < n && s[i+1] == '/' {
					out[i] = maskByte(s[i])
					out[i+1] = maskByte(s[i+1])
					i += 2
					break
				}
				out[i] = maskByte(s[i])
				i++
			}
			continue
		}

		if (c == '-' && i+1 < n && s[i+1] == '-') || c == '#' {
			for i < n && s[i] != '\n' {
				out[i] = maskByte(s[i])
				i++
			}
			continue
		}

		if c == '\'' || c == '"' {
			quote := c
			i++
			for i < n {
				if s[i] == quote {
					if i+1 < n && s[i+1] == quote {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			continue
		}

		i++
	}

	return string(out)
}
