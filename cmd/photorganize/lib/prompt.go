package photorganize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/photorganize/pkg"
)

// ConfirmationProvider settles an uncertain timestamp. It receives the file
// and the fallback and returns the timestamp to use.
type ConfirmationProvider interface {
	ConfirmTimestamp(path string, fallback pkg.ResolvedTime) (time.Time, error)
}

// ConfirmationFunc adapts a plain function to ConfirmationProvider.
type ConfirmationFunc func(path string, fallback pkg.ResolvedTime) (time.Time, error)

func (f ConfirmationFunc) ConfirmTimestamp(path string, fallback pkg.ResolvedTime) (time.Time, error) {
	return f(path, fallback)
}

// AcceptFallback never prompts and returns the fallback unchanged.
type AcceptFallback struct{}

func (AcceptFallback) ConfirmTimestamp(_ string, fallback pkg.ResolvedTime) (time.Time, error) {
	return fallback.Time, nil
}

// DuplicateDecider decides, file by file, whether a duplicate is deleted.
type DuplicateDecider interface {
	DeleteDuplicate(path, canonical string) (bool, error)
}

// DuplicateDeciderFunc adapts a plain function to DuplicateDecider.
type DuplicateDeciderFunc func(path, canonical string) (bool, error)

func (f DuplicateDeciderFunc) DeleteDuplicate(path, canonical string) (bool, error) {
	return f(path, canonical)
}

// KeepDuplicates never deletes.
type KeepDuplicates struct{}

func (KeepDuplicates) DeleteDuplicate(string, string) (bool, error) { return false, nil }

// operatorLayouts are accepted when the operator types a timestamp.
var operatorLayouts = []string{pkg.CanonicalTimeLayout, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}

// ConsolePrompter asks the operator on a terminal. End of input keeps the
// fallback, so piping the tool never blocks forever.
type ConsolePrompter struct {
	in      *bufio.Reader
	out     io.Writer
	details func(path string) []string
}

// NewConsolePrompter reads answers from in and writes prompts to out. details,
// when non-nil, adds extra lines (size, resolution, birth time) about a file.
func NewConsolePrompter(in io.Reader, out io.Writer, details func(path string) []string) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out, details: details}
}

func (p *ConsolePrompter) ConfirmTimestamp(path string, fallback pkg.ResolvedTime) (time.Time, error) {
	first := true
	for {
		if !first {
			fmt.Fprintln(p.out, "Unrecognized command, try again")
			fmt.Fprintln(p.out)
		}
		first = false

		p.describe(path, fallback)
		answer, err := p.ask("\nHow to proceed? [(k)eep as is/(i)nput new datetime] ")
		if err != nil {
			return fallback.Time, nil
		}

		switch strings.ToLower(answer) {
		case "", "k", "keep":
			return fallback.Time, nil
		case "i", "input":
			t, ok, err := p.askDatetime()
			if err != nil {
				return fallback.Time, nil
			}
			if ok {
				return t, nil
			}
			first = true
		}
	}
}

func (p *ConsolePrompter) describe(path string, fallback pkg.ResolvedTime) {
	fmt.Fprintln(p.out, "We cannot accurately determine the date and time this photo has been taken:")
	fmt.Fprintln(p.out)
	p.describeFile(path)
	fmt.Fprintf(p.out, "Datetime found : %s\n", fallback.Time.Format(pkg.CanonicalTimeLayout))
	fmt.Fprintf(p.out, "Datetime source: %s\n", fallback.Source)
	p.printDetails(path)
}

// askDatetime reads one datetime. ok is false when the input did not parse.
func (p *ConsolePrompter) askDatetime() (time.Time, bool, error) {
	answer, err := p.ask("Which datetime? [YYYY-MM-DD hh:mm:ss] ")
	if err != nil {
		return time.Time{}, false, err
	}
	for _, layout := range operatorLayouts {
		if t, err := time.ParseInLocation(layout, answer, time.Local); err == nil {
			return t, true, nil
		}
	}
	fmt.Fprintln(p.out, "Not a valid datetime, try again")
	fmt.Fprintln(p.out)
	return time.Time{}, false, nil
}

func (p *ConsolePrompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// DeleteDuplicate shows both copies and asks whether to delete path. An empty
// answer or end of input keeps the file.
func (p *ConsolePrompter) DeleteDuplicate(path, canonical string) (bool, error) {
	first := true
	for {
		if !first {
			fmt.Fprintln(p.out, "Unrecognized command, try again")
			fmt.Fprintln(p.out)
		}
		first = false

		fmt.Fprintln(p.out, "The following file:")
		fmt.Fprintln(p.out)
		p.describeFile(path)
		p.printDetails(path)
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Has been found to be a duplicate of another:")
		fmt.Fprintln(p.out)
		p.describeFile(canonical)
		p.printDetails(canonical)

		answer, err := p.ask("\nHow to proceed? [(k)eep duplicate/(d)elete duplicate] ")
		if err != nil {
			return false, nil
		}
		switch strings.ToLower(answer) {
		case "", "k", "keep":
			return false, nil
		case "d", "delete":
			return true, nil
		}
	}
}

func (p *ConsolePrompter) describeFile(path string) {
	fmt.Fprintf(p.out, "File name      : %s\n", filepath.Base(path))
	fmt.Fprintf(p.out, "Path           : %s\n", filepath.Dir(path))
}

func (p *ConsolePrompter) printDetails(path string) {
	if p.details == nil {
		return
	}
	for _, line := range p.details(path) {
		fmt.Fprintln(p.out, line)
	}
}
