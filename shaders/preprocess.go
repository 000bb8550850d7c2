package shaders

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnbalanced = errors.New("shaders: unbalanced preprocessor directive")

// branch is an open #ifdef or #ifndef. parent records whether the
// enclosing branch emits.
type branch struct {
	active   bool
	parent   bool
	seenElse bool
	line     int
}

// Preprocess evaluates #ifdef, #ifndef, #else and #endif directives against
// defines and strips them. Directives may nest. Lines in disabled branches
// are dropped.
func Preprocess(src string, defines []string) (string, error) {
	defined := make(map[string]bool, len(defines))
	for _, d := range defines {
		defined[d] = true
	}

	var (
		out   []string
		stack []branch
	)
	emitting := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	for i, line := range strings.Split(src, "\n") {
		n := i + 1
		directive, arg, isDirective := parseDirective(line)
		if !isDirective {
			if emitting() {
				out = append(out, line)
			}
			continue
		}

		switch directive {
		case "#ifdef", "#ifndef":
			if arg == "" {
				return "", fmt.Errorf("%w: %s without a name at line %d", ErrUnbalanced, directive, n)
			}
			parent := emitting()
			cond := defined[arg]
			if directive == "#ifndef" {
				cond = !cond
			}
			stack = append(stack, branch{active: parent && cond, parent: parent, line: n})
		case "#else":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: #else without #ifdef at line %d", ErrUnbalanced, n)
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return "", fmt.Errorf("%w: second #else at line %d", ErrUnbalanced, n)
			}
			top.seenElse = true
			top.active = top.parent && !top.active
		case "#endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: #endif without #ifdef at line %d", ErrUnbalanced, n)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("%w: #ifdef at line %d is never closed", ErrUnbalanced, stack[len(stack)-1].line)
	}
	return strings.Join(out, "\n"), nil
}

func parseDirective(line string) (directive, arg string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	switch fields[0] {
	case "#ifdef", "#ifndef", "#else", "#endif":
		if len(fields) > 1 {
			arg = fields[1]
		}
		return fields[0], arg, true
	}
	return "", "", false
}
