package python

import (
	"bufio"
	"os"
	"strings"

	"github.com/enorganic/requirements/pkg/requirement"
)

// Requirements reads requirements files. Any *.txt file is accepted; lines
// that are not requirement specifiers (options, URLs, includes) are
// skipped.
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements" }

func (r *Requirements) Supports(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}

func (r *Requirements) ReadSpecifiers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specifierLines(lines), nil
}

// specifierLines trims each line, drops comments and keeps the lines that
// parse as requirement specifiers, deduplicated in order.
func specifierLines(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		line = stripComment(line)
		if line == "" || line[0] == '-' || seen[line] {
			continue
		}
		if requirement.IsRequirement(line) {
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}

func splitLines(value string) []string {
	return specifierLines(strings.Split(value, "\n"))
}

func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
