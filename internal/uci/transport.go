package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Engine is a UCI engine running as a subprocess, reachable over its stdin
// and stdout pipes.
type Engine struct {
	iox.AsyncCloser

	name string
	cmd  *exec.Cmd
	in   io.WriteCloser
	out  <-chan string

	id      string          // engine-reported id name, if any
	options map[string]bool // option names advertised during the handshake
}

// Option configures engine launch.
type Option func(*exec.Cmd)

// WithArgs appends command-line arguments to the engine subprocess.
func WithArgs(args ...string) Option {
	return func(cmd *exec.Cmd) {
		cmd.Args = append(cmd.Args, args...)
	}
}

// WithDir sets the engine subprocess's working directory.
func WithDir(dir string) Option {
	return func(cmd *exec.Cmd) {
		cmd.Dir = dir
	}
}

// Launch starts the engine binary at path as a subprocess and begins reading
// its stdout asynchronously. The caller must call Handshake before sending
// position/go commands.
func Launch(ctx context.Context, name, path string, opts ...Option) (*Engine, error) {
	cmd := exec.Command(path)
	for _, fn := range opts {
		fn(cmd)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %v: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %v: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %v: %w", name, err)
	}

	e := &Engine{
		AsyncCloser: iox.NewAsyncCloser(),
		name:        name,
		cmd:         cmd,
		in:          stdin,
		out:         readLines(ctx, name, stdout),
	}

	logw.Infof(ctx, "Launched engine %v: %v", name, path)
	return e, nil
}

func readLines(ctx context.Context, name string, r io.Reader) <-chan string {
	ret := make(chan string, 16)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			logw.Debugf(ctx, "%v << %v", name, line)
			ret <- line
		}
	}()
	return ret
}

func (e *Engine) send(ctx context.Context, line string) error {
	logw.Debugf(ctx, "%v >> %v", e.name, line)
	_, err := fmt.Fprintln(e.in, line)
	return err
}

// Handshake performs the "uci" / "uciok" exchange, recording the engine's
// reported name and the set of options it advertises.
func (e *Engine) Handshake(ctx context.Context) error {
	if err := e.send(ctx, "uci"); err != nil {
		return err
	}

	e.options = make(map[string]bool)
	for {
		select {
		case line, ok := <-e.out:
			if !ok {
				return fmt.Errorf("engine %v closed during handshake", e.name)
			}
			if key, value, ok := ParseID(line); ok && key == "name" {
				e.id = value
			}
			if name, _, _, ok := ParseOption(line); ok {
				e.options[name] = true
			}
			if strings.TrimSpace(line) == "uciok" {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ID returns the engine's self-reported name, or the launch name if the
// engine never sent one.
func (e *Engine) ID() string {
	if e.id != "" {
		return e.id
	}
	return e.name
}

// HasOption reports whether the engine advertised the named option during
// the handshake.
func (e *Engine) HasOption(name string) bool {
	return e.options[name]
}

// SetOption sends a "setoption name <name> value <value>" command. Setting an
// option the engine never advertised is logged but still sent, since engines
// are required to ignore setoption commands they do not understand.
func (e *Engine) SetOption(ctx context.Context, name, value string) error {
	if e.options != nil && !e.options[name] {
		logw.Warningf(ctx, "%v does not advertise option %v", e.name, name)
	}
	return e.send(ctx, fmt.Sprintf("setoption name %v value %v", name, value))
}

// NewGame sends "ucinewgame" and waits for readiness.
func (e *Engine) NewGame(ctx context.Context) error {
	if err := e.send(ctx, "ucinewgame"); err != nil {
		return err
	}
	return e.Sync(ctx)
}

// Sync performs the "isready" / "readyok" exchange used to flush the
// engine's command queue.
func (e *Engine) Sync(ctx context.Context) error {
	if err := e.send(ctx, "isready"); err != nil {
		return err
	}
	for {
		select {
		case line, ok := <-e.out:
			if !ok {
				return fmt.Errorf("engine %v closed during sync", e.name)
			}
			if strings.TrimSpace(line) == "readyok" {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Position sends a position command, pre-rendered by FormatPosition.
func (e *Engine) Position(ctx context.Context, cmd string) error {
	return e.send(ctx, cmd)
}

// Result is the engine's response to a "go" command: the last retained info
// line, the chosen move, and whether the deadline was exceeded first.
type Result struct {
	Info     Info
	Move     string
	Ponder   string
	TimedOut bool
}

// Go sends a go command, pre-rendered by FormatGo, and waits for bestmove, a
// deadline, or context cancellation, whichever comes first. On timeout Go
// sends "stop" and keeps waiting briefly for the forced bestmove.
func (e *Engine) Go(ctx context.Context, cmd string, deadline time.Duration) (Result, error) {
	if err := e.send(ctx, cmd); err != nil {
		return Result{}, err
	}

	var res Result
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-e.out:
			if !ok {
				return res, fmt.Errorf("engine %v closed during go", e.name)
			}
			if info, ok := ParseInfo(line); ok {
				res.Info = info
			}
			if move, ponder, ok := ParseBestMove(line); ok {
				res.Move = move
				res.Ponder = ponder
				return res, nil
			}

		case <-timer.C:
			if res.TimedOut {
				// already sent stop once; engine is unresponsive.
				return res, fmt.Errorf("engine %v unresponsive after stop", e.name)
			}
			res.TimedOut = true
			if err := e.send(ctx, "stop"); err != nil {
				return res, err
			}
			timer.Reset(5 * time.Second)

		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// Quit sends "quit", closes stdin and waits briefly for the process to exit
// before killing it.
func (e *Engine) Quit(ctx context.Context) error {
	_ = e.send(ctx, "quit")
	_ = e.in.Close()

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()

	select {
	case err := <-done:
		e.Close()
		return err
	case <-time.After(2 * time.Second):
		_ = e.cmd.Process.Kill()
		e.Close()
		return <-done
	}
}
