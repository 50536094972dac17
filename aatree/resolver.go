package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// consoleResolver asks the user for an ingroup taxon.
type consoleResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsoleResolver(in io.Reader, out io.Writer) *consoleResolver {
	return &consoleResolver{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ingroup implements reroot.Resolver.
func (r *consoleResolver) Ingroup(outgroup []string) (string, error) {
	fmt.Fprintf(r.out, "\nOutgroup: %s\nEnter an ingroup taxon: ", strings.Join(outgroup, ", "))
	line, err := r.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errors.New("no answer")
		}
		return "", err
	}
	return line, nil
}
