// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"shfront/pattern"
)

// DefaultGlobber walks the real filesystem. Grounded on mvdan.cc/sh/v3's
// expand/expand.go glob()/globDir(), rewritten against this module's
// pattern package (pattern.Regexp/pattern.MatchString) instead of the
// teacher's own syntax.TranslatePattern.
type DefaultGlobber struct{}

var rxGlobStar = regexp.MustCompile("(?s).*")

func (DefaultGlobber) Glob(pat string, starEnabled bool) ([]string, error) {
	parts := strings.Split(pat, string(filepath.Separator))
	matches := []string{"."}
	if filepath.IsAbs(pat) {
		if parts[0] == "" {
			matches[0] = string(filepath.Separator)
		} else {
			matches[0] = parts[0] + string(filepath.Separator)
		}
		parts = parts[1:]
	}
	for _, part := range parts {
		if part == "**" && starEnabled {
			for i := range matches {
				matches[i] += string(filepath.Separator)
			}
			latest := matches
			for {
				var next []string
				for _, dir := range latest {
					next = globDir(dir, rxGlobStar, next)
				}
				if len(next) == 0 {
					break
				}
				matches = append(matches, next...)
				latest = next
			}
			continue
		}
		expr, err := pattern.Regexp(part, 0)
		if err != nil {
			return nil, nil
		}
		rx, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, nil
		}
		var next []string
		for _, dir := range matches {
			next = globDir(dir, rx, next)
		}
		matches = next
	}
	return matches, nil
}

func globDir(dir string, rx *regexp.Regexp, matches []string) []string {
	f, err := os.Open(dir)
	if err != nil {
		return matches
	}
	defer f.Close()

	names, _ := f.Readdirnames(-1)
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasPrefix(rx.String(), `^\.`) && len(name) > 0 && name[0] == '.' {
			continue
		}
		if rx.MatchString(name) {
			matches = append(matches, filepath.Join(dir, name))
		}
	}
	return matches
}
