package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/shell"
)

// Process drives an external engine binary by feeding command lines to its
// standard input, one per line.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Start launches commandLine, split with shell quoting rules and expanded
// against the environment, e.g. "mpirun -np 4 lmp -log none".
func Start(ctx context.Context, commandLine string, stdout, stderr io.Writer) (*Process, error) {
	argv, err := shell.Fields(commandLine, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("engine: parse command line: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("engine: empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("engine: start %s: %w", argv[0], err)
	}
	return &Process{cmd: cmd, stdin: stdin}, nil
}

func (p *Process) Command(line string) error {
	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		return fmt.Errorf("engine: send %q: %w", line, err)
	}
	return nil
}

// Close ends the input stream and waits for the engine to exit.
func (p *Process) Close() error {
	if err := p.stdin.Close(); err != nil {
		return err
	}
	return p.cmd.Wait()
}
