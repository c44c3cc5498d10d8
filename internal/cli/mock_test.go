package cli

import (
	"io"
	"strings"
)

// MockCommand is a scripted Command for tests.
type MockCommand struct {
	OutputData []byte
	Err        error

	Stdin io.Reader
}

func (c *MockCommand) Output() ([]byte, error)         { return c.OutputData, c.Err }
func (c *MockCommand) CombinedOutput() ([]byte, error) { return c.OutputData, c.Err }
func (c *MockCommand) Run() error                      { return c.Err }
func (c *MockCommand) SetStdout(io.Writer)             {}
func (c *MockCommand) SetStderr(io.Writer)             {}
func (c *MockCommand) SetStdin(r io.Reader)            { c.Stdin = r }

// MockExecutor records every command it creates and answers each with a
// scripted MockCommand. CommandFunc, when set, decides the response per
// invocation; otherwise DefaultOutput/DefaultErr apply.
type MockExecutor struct {
	Commands []ExecSpec

	CommandFunc   func(spec ExecSpec) *MockCommand
	DefaultOutput []byte
	DefaultErr    error
}

func (m *MockExecutor) Command(name string, args []string, validators ...ExecValidator) (Command, error) {
	spec := ExecSpec{Name: name, Args: args}
	for _, validate := range validators {
		if err := validate(spec); err != nil {
			return nil, err
		}
	}
	m.Commands = append(m.Commands, spec)
	if m.CommandFunc != nil {
		return m.CommandFunc(spec), nil
	}
	return &MockCommand{OutputData: m.DefaultOutput, Err: m.DefaultErr}, nil
}

// HasCommand reports whether any recorded command matches name and contains
// every given argument.
func (m *MockExecutor) HasCommand(name string, args ...string) bool {
	for _, spec := range m.Commands {
		if spec.Name != name {
			continue
		}
		all := true
		for _, want := range args {
			if !contains(spec.Args, want) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// LastCommand returns the most recently created command spec.
func (m *MockExecutor) LastCommand() (ExecSpec, bool) {
	if len(m.Commands) == 0 {
		return ExecSpec{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

func contains(args []string, s string) bool {
	for _, arg := range args {
		if arg == s {
			return true
		}
	}
	return false
}

// argsJoined flattens a spec for substring assertions.
func argsJoined(spec ExecSpec) string {
	return spec.Name + " " + strings.Join(spec.Args, " ")
}
