// Package console drives an assist session over a plain text terminal,
// standing in for the telephony audio path during local development.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	mu      sync.Mutex
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Next blocks for the next caller line. It returns io.EOF once the input
// is exhausted, which the worker treats as the caller hanging up.
func (c *Console) Next() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

// Say prints an assistant reply tagged with the persona speaking it.
func (c *Console) Say(persona, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s> %s\n", persona, text)
}
