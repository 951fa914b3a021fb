package gputest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const minVersion = 330

type token struct {
	text string
	line int
	col  int
}

type variable struct {
	typ      string
	name     string
	location int
}

// unit is the result of checking a single shader source.
type unit struct {
	hasMain  bool
	ins      []variable
	outs     []variable
	uniforms []variable
}

// checkSource performs the subset of GLSL front-end checks the fake driver
// relies on: version directive, bracket balance, statement terminators and
// top-level interface declarations. It returns a driver style info log on
// failure.
func checkSource(src string) (unit, string) {
	var u unit
	if strings.TrimSpace(src) == "" {
		return u, errorLine(1, 1, "syntax error, unexpected end of file")
	}
	tokens, directives := tokenize(stripComments(src))

	version := -1
	for _, d := range directives {
		fields := strings.Fields(strings.TrimPrefix(d.text, "#"))
		if len(fields) == 0 || fields[0] != "version" {
			continue
		}
		if len(tokens) > 0 && tokens[0].line < d.line {
			return u, errorLine(d.line, d.col, "#version must appear on the first line of a shader")
		}
		if len(fields) < 2 {
			return u, errorLine(d.line, d.col, "syntax error, unexpected end of directive")
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return u, errorLine(d.line, d.col, fmt.Sprintf("invalid #version %q", fields[1]))
		}
		version = v
		break
	}
	if version < 0 {
		return u, errorLine(1, 1, "GLSL 1.10 is not supported. Supported versions are: 3.30 core")
	}
	if version < minVersion {
		return u, errorLine(1, 1, fmt.Sprintf("GLSL %d is not supported. Supported versions are: 3.30 core", version))
	}

	var (
		stack  []token
		stmt   []token
		braces int
		prev   string
	)
	for _, tk := range tokens {
		switch tk.text {
		case "{", "(", "[":
			if tk.text == "{" {
				if braces == 0 {
					if isMainHeader(stmt) {
						u.hasMain = true
					}
					stmt = stmt[:0]
				}
				braces++
			} else if braces == 0 {
				stmt = append(stmt, tk)
			}
			stack = append(stack, tk)
		case "}", ")", "]":
			if len(stack) == 0 || !matches(stack[len(stack)-1].text, tk.text) {
				return u, errorLine(tk.line, tk.col, fmt.Sprintf("syntax error, unexpected '%s'", tk.text))
			}
			stack = stack[:len(stack)-1]
			if tk.text == "}" {
				if !isTerminator(prev) {
					return u, errorLine(tk.line, tk.col, "syntax error, unexpected '}', expecting ',' or ';'")
				}
				braces--
				if braces == 0 {
					stmt = stmt[:0]
				}
			} else if braces == 0 {
				stmt = append(stmt, tk)
			}
		case ";":
			if braces == 0 {
				u.declare(stmt)
				stmt = stmt[:0]
			}
		default:
			if braces == 0 {
				stmt = append(stmt, tk)
			}
		}
		prev = tk.text
	}
	if len(stack) > 0 {
		last := tokens[len(tokens)-1]
		return u, errorLine(last.line, last.col+len(last.text), "syntax error, unexpected end of file")
	}
	if len(stmt) > 0 {
		last := stmt[len(stmt)-1]
		return u, errorLine(last.line, last.col+len(last.text), "syntax error, unexpected end of file, expecting ';'")
	}
	return u, ""
}

// declare records a file scope declaration such as
// "layout ( location = 0 ) in vec3 aPos" or "uniform vec4 uColor".
func (u *unit) declare(stmt []token) {
	words := make([]string, 0, len(stmt))
	for _, tk := range stmt {
		words = append(words, tk.text)
	}
	location := -1
	if len(words) > 0 && words[0] == "layout" {
		end := indexOf(words, ")")
		if end < 0 {
			return
		}
		for i := 1; i+2 < end; i++ {
			if words[i] == "location" && words[i+1] == "=" {
				if n, err := strconv.Atoi(words[i+2]); err == nil {
					location = n
				}
			}
		}
		words = words[end+1:]
	}
	for len(words) > 0 && isInterpolation(words[0]) {
		words = words[1:]
	}
	if len(words) < 3 {
		return
	}
	v := variable{typ: words[len(words)-2], name: words[len(words)-1], location: location}
	switch words[0] {
	case "in":
		u.ins = append(u.ins, v)
	case "out":
		u.outs = append(u.outs, v)
	case "uniform":
		u.uniforms = append(u.uniforms, v)
	}
}

func (u unit) output(name string) (variable, bool) {
	for _, v := range u.outs {
		if v.name == name {
			return v, true
		}
	}
	return variable{}, false
}

// linkUnits matches the fragment stage inputs against the vertex stage
// outputs and returns a linker style info log on failure.
func linkUnits(vs, fs *unit) string {
	var sb strings.Builder
	if vs == nil {
		sb.WriteString("error: program lacks a vertex shader\n")
	} else if !vs.hasMain {
		sb.WriteString("error: vertex shader lacks `main'\n")
	}
	if fs == nil {
		sb.WriteString("error: program lacks a fragment shader\n")
	} else if !fs.hasMain {
		sb.WriteString("error: fragment shader lacks `main'\n")
	}
	if vs == nil || fs == nil {
		return sb.String()
	}
	for _, in := range fs.ins {
		out, ok := vs.output(in.name)
		if !ok {
			fmt.Fprintf(&sb, "error: fragment shader input `%s' has no matching output in the previous stage\n", in.name)
			continue
		}
		if out.typ != in.typ {
			fmt.Fprintf(&sb, "error: `%s' has type %s in fragment shader but %s in vertex shader\n", in.name, in.typ, out.typ)
		}
	}
	return sb.String()
}

func isMainHeader(stmt []token) bool {
	return len(stmt) >= 2 && stmt[0].text == "void" && stmt[1].text == "main"
}

func isTerminator(s string) bool {
	return s == ";" || s == "{" || s == "}"
}

func isInterpolation(s string) bool {
	switch s {
	case "flat", "smooth", "noperspective", "centroid", "highp", "mediump", "lowp":
		return true
	}
	return false
}

func matches(open, close string) bool {
	switch open {
	case "{":
		return close == "}"
	case "(":
		return close == ")"
	case "[":
		return close == "]"
	}
	return false
}

func indexOf(words []string, w string) int {
	for i, s := range words {
		if s == w {
			return i
		}
	}
	return -1
}

func errorLine(line, col int, msg string) string {
	return fmt.Sprintf("0:%d(%d): error: %s\n", line, col, msg)
}

// stripComments blanks out comments while keeping line and column positions.
func stripComments(src string) string {
	out := []rune(src)
	for i := 0; i < len(out); i++ {
		if out[i] != '/' || i+1 >= len(out) {
			continue
		}
		switch out[i+1] {
		case '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}
	return string(out)
}

func tokenize(src string) (tokens []token, directives []token) {
	for n, line := range strings.Split(src, "\n") {
		lineNo := n + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			col := strings.Index(line, "#") + 1
			directives = append(directives, token{text: trimmed, line: lineNo, col: col})
			continue
		}
		runes := []rune(line)
		for i := 0; i < len(runes); {
			r := runes[i]
			switch {
			case unicode.IsSpace(r):
				i++
			case isWordRune(r):
				start := i
				for i < len(runes) && isWordRune(runes[i]) {
					i++
				}
				tokens = append(tokens, token{text: string(runes[start:i]), line: lineNo, col: start + 1})
			default:
				tokens = append(tokens, token{text: string(r), line: lineNo, col: i + 1})
				i++
			}
		}
	}
	return tokens, directives
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
