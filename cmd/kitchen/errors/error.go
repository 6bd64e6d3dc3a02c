package errors

import (
	"fmt"
	"strings"
)

// CUIError is an error whose message is meant for the terminal: a one
// line summary, optionally expanded with server-sent detail.
type CUIError interface {
	error
	Verbose() string
}

type cuierror struct {
	summary     string
	printDetail func(summary string) (string, error)
	base        error
}

func (ce *cuierror) Unwrap() error {
	return ce.base
}

func (ce *cuierror) Error() string {
	if ce.printDetail == nil {
		return ce.summary
	}
	message, err := ce.printDetail(ce.summary)
	if err != nil {
		message = fmt.Sprintf(
			"%s\n(building detailed message causes error: %s)",
			ce.summary, err.Error(),
		)
	}
	return message
}

func (ce *cuierror) Verbose() string {
	message := []string{ce.Error()}
	if ce.base != nil {
		message = append(message, "caused by: ", ce.base.Error())
	}
	return strings.Join(message, "\n")
}

type CuiErrorOption func(cerr *cuierror) *cuierror

func NewCuiError(summary string, options ...CuiErrorOption) CUIError {
	err := &cuierror{summary: summary}
	for _, o := range options {
		err = o(err)
	}
	return err
}

func WithDetail(printer func(summary string) (string, error)) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.printDetail = printer
		return cerr
	}
}

func WithCause(err error) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.base = err
		return cerr
	}
}
