// Package replay feeds a recorded conversation script through the assist
// pipeline at a fixed pace, for regression runs against real call logs.
package replay

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultSpeaker = "caller"

type Line struct {
	Speaker string
	Text    string
}

type Source struct {
	lines []Line
	delay time.Duration
}

// New parses a script file of "speaker: text" lines. Blank lines and lines
// starting with # are skipped. Lines without a speaker prefix belong to the
// default caller.
func New(scriptPath string, delay time.Duration) (*Source, error) {
	f, err := os.Open(scriptPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []Line

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		speaker := defaultSpeaker
		text := line
		if i := strings.Index(line, ":"); i > 0 {
			speaker = strings.ToLower(strings.TrimSpace(line[:i]))
			text = strings.TrimSpace(line[i+1:])
		}
		if text == "" {
			continue
		}

		lines = append(lines, Line{Speaker: speaker, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("script[%s] has no lines", scriptPath)
	}

	return &Source{
		lines: lines,
		delay: delay,
	}, nil
}

func (s *Source) Lines() []Line {
	return s.lines
}

func (s *Source) Delay() time.Duration {
	return s.delay
}
