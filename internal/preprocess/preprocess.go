// Package preprocess expands #include directives before lexing, mirroring
// original_source/lark_parser.py's Preprocessor class: a line-oriented scan
// for #include "path" lines, recursive expansion, and cycle detection over
// absolute paths.
package preprocess

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oisee/bfsc/pkg/diag"
)

const includePrefix = "#include"

// Run reads path and returns its fully expanded source text, with every
// #include "file" line replaced by that file's (recursively expanded)
// contents.
func Run(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &diag.IncludeError{Kind: diag.IncludeInvalid, Path: path, Err: err}
	}
	return expand(abs, map[string]bool{})
}

func expand(abs string, visiting map[string]bool) (string, error) {
	if visiting[abs] {
		return "", &diag.IncludeError{Kind: diag.IncludeCircular, Path: abs}
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", &diag.IncludeError{Kind: diag.IncludeNotFound, Path: abs, Err: err}
	}

	var out strings.Builder
	dir := filepath.Dir(abs)
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, includePrefix) {
			rest := strings.TrimSpace(trimmed[len(includePrefix):])
			incPath, err := parseIncludeArg(rest)
			if err != nil {
				return "", &diag.IncludeError{Kind: diag.IncludeInvalid, Path: line}
			}
			if !filepath.IsAbs(incPath) {
				incPath = filepath.Join(dir, incPath)
			}
			incAbs, err := filepath.Abs(incPath)
			if err != nil {
				return "", &diag.IncludeError{Kind: diag.IncludeInvalid, Path: incPath, Err: err}
			}
			expanded, err := expand(incAbs, visiting)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			out.WriteByte('\n')
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return out.String(), nil
}

func parseIncludeArg(rest string) (string, error) {
	if len(rest) >= 2 && rest[0] == '"' {
		if unquoted, err := strconv.Unquote(rest); err == nil {
			return unquoted, nil
		}
		if rest[len(rest)-1] == '"' {
			return rest[1 : len(rest)-1], nil
		}
	}
	return "", &diag.SyntaxError{Msg: "malformed #include directive"}
}
