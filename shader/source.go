package shader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is a fragment shader with its includes expanded.
type Source struct {
	// Path of the main file.
	Path string
	// Code is ready to hand to gles.LoadProgram.
	Code string
	// Files lists every file read, main file first.
	Files []string
}

// ReadFileFunc reads the file at path.
type ReadFileFunc func(path string) ([]byte, error)

// Load reads the fragment shader at path from disk.
func Load(path string) (*Source, error) {
	return Parse(path, nil, os.ReadFile)
}

// Parse expands a fragment shader. When code is nil the main file is read with
// readFile like any include. Include paths are relative to the directory of
// the including file.
func Parse(path string, code []byte, readFile ReadFileFunc) (*Source, error) {
	p := &parser{
		readFile: readFile,
		seen:     make(map[string]bool),
	}
	var b strings.Builder
	if err := p.expand(&b, filepath.Clean(path), code, nil); err != nil {
		return nil, err
	}
	return &Source{
		Path:  path,
		Code:  withHeader(b.String()),
		Files: p.files,
	}, nil
}

type parser struct {
	readFile ReadFileFunc
	seen     map[string]bool
	files    []string
}

func (p *parser) expand(b *strings.Builder, path string, code []byte, stack []string) error {
	for _, s := range stack {
		if s == path {
			return fmt.Errorf("include cycle: %s -> %s", strings.Join(stack, " -> "), path)
		}
	}
	stack = append(stack, path)

	if code == nil {
		var err error
		code, err = p.readFile(path)
		if err != nil {
			if len(stack) > 1 {
				return fmt.Errorf("failed to read include %s from %s: %w", path, stack[len(stack)-2], err)
			}
			return fmt.Errorf("failed to read shader: %w", err)
		}
	}
	if !p.seen[path] {
		p.seen[path] = true
		p.files = append(p.files, path)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(code)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		name, ok, err := includeTarget(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineno, err)
		}
		if !ok {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		target := filepath.Join(filepath.Dir(path), name)
		if err := p.expand(b, target, nil, stack); err != nil {
			return err
		}
		b.WriteByte('\n')
	}
	return scanner.Err()
}

// includeTarget parses `#include "name"`. ok is false for any other line.
func includeTarget(line string) (name string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#include") {
		return "", false, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(trimmed, "#include"))
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return "", false, fmt.Errorf("malformed include directive %q", trimmed)
	}
	name = arg[1 : len(arg)-1]
	if name == "" {
		return "", false, fmt.Errorf("empty include path")
	}
	return name, true, nil
}

// withHeader prepends Header unless the first non-blank line is a #version
// directive, which GLSL requires to come before anything else.
func withHeader(code string) string {
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#version") {
			return code
		}
		break
	}
	return Header + code
}
