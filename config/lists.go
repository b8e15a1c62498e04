package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	errs "github.com/c360studio/semstreams/errors"
)

// ListLine is one significant line of a deletion list.
type ListLine struct {
	Text   string
	Source string
	Number int
}

// String returns the source position of the line.
func (l ListLine) String() string {
	return fmt.Sprintf("%s:%d", l.Source, l.Number)
}

// DeletionLists holds the four ordered deletion lists.
type DeletionLists struct {
	Branches   []ListLine
	Properties []ListLine
	Complex    []ListLine
	Simplify   []ListLine
}

// Total returns the number of entries across all lists.
func (d *DeletionLists) Total() int {
	if d == nil {
		return 0
	}
	return len(d.Branches) + len(d.Properties) + len(d.Complex) + len(d.Simplify)
}

// LoadLists reads every configured list. An unset list is empty; a list that
// is set but cannot be read is fatal.
func LoadLists(c ListsConfig) (*DeletionLists, error) {
	var (
		out DeletionLists
		err error
	)
	if out.Branches, err = ReadList(c.BranchDelete); err != nil {
		return nil, err
	}
	if out.Properties, err = ReadList(c.PropsDelete); err != nil {
		return nil, err
	}
	if out.Complex, err = ReadList(c.ComplexDelete); err != nil {
		return nil, err
	}
	if out.Simplify, err = ReadList(c.ComplexSimplify); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadList reads the entries of the list at pattern. Patterns containing
// glob metacharacters are expanded with doublestar and the matches are read
// in lexical order. Blank lines and lines starting with '#' are skipped.
func ReadList(pattern string) ([]ListLine, error) {
	if pattern == "" {
		return nil, nil
	}

	paths := []string{pattern}
	if strings.ContainsAny(pattern, "*?[{") {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errs.WrapFatal(err, "config", "ReadList", "expand "+pattern)
		}
		if len(matches) == 0 {
			return nil, errs.WrapFatal(fmt.Errorf("no files match %q", pattern), "config", "ReadList", "expand "+pattern)
		}
		sort.Strings(matches)
		paths = matches
	}

	lines := make([]ListLine, 0)
	for _, path := range paths {
		read, err := readListFile(path)
		if err != nil {
			return nil, errs.WrapFatal(err, "config", "ReadList", "read "+path)
		}
		lines = append(lines, read...)
	}
	return lines, nil
}

func readListFile(path string) ([]ListLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]ListLine, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		// Tabs and spaces are significant inside entries; fields are
		// trimmed by the parsers that need it.
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if trimmed := strings.TrimSpace(text); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, ListLine{Text: text, Source: path, Number: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
