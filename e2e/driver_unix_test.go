//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var binPath = "itemlist_e2e"

const (
	keyEnter = "\r"
	keyCtrlC = "\x03"
	keySpace = " "
	keyDown  = "\x1b[B"
	keyQuit  = "q"
	keyAll   = "a"
	keyClear = "A"
	keyAdd   = "n"
	keyHide  = "h"
)

// escape sequences and carriage returns, removed before matching screen text
var escapes = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`)

// screen collects everything the application writes to its terminal
type screen struct {
	mu  sync.Mutex
	out bytes.Buffer
}

// keep the last part only, a full redraw per key adds up quickly
const screenLimit = 1 << 20

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Write(p)
	if over := s.out.Len() - screenLimit; over > 0 {
		s.out.Next(over)
	}
	return len(p), nil
}

func (s *screen) text() string {
	s.mu.Lock()
	raw := s.out.String()
	s.mu.Unlock()
	return escapes.ReplaceAllString(raw, "")
}

// session is one itemlist process running in a pty inside a scratch directory
type session struct {
	t      *testing.T
	dir    string
	cmd    *exec.Cmd
	ptmx   *os.File
	screen *screen
	exited chan error
}

func newSession(t *testing.T) *session {
	t.Helper()
	s := &session{t: t, dir: t.TempDir(), screen: &screen{}}
	t.Cleanup(s.close)
	return s
}

func (s *session) path(name string) string {
	return filepath.Join(s.dir, name)
}

// writeConfig writes the config file itemlist reads by default
func (s *session) writeConfig(content string) {
	s.t.Helper()
	if err := os.WriteFile(s.path(".itemlist.toml"), []byte(content), 0o644); err != nil {
		s.t.Fatalf("write config: %v", err)
	}
}

// start runs itemlist with args on a 120x40 terminal
func (s *session) start(args ...string) error {
	args = append([]string{"-log", s.path("itemlist.log")}, args...)
	s.cmd = exec.Command(binPath, args...)
	s.cmd.Dir = s.dir
	s.cmd.Env = append(os.Environ(), "TERM=xterm-256color", "LANG=C", "LC_ALL=C", "HOME="+s.dir)

	ptmx, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start itemlist in pty: %w", err)
	}
	s.ptmx = ptmx

	s.exited = make(chan error, 1)
	copied := make(chan struct{})
	go func() {
		_, _ = io.Copy(s.screen, ptmx)
		close(copied)
	}()
	go func() {
		err := s.cmd.Wait()
		// the last lines printed may still sit in the pty
		select {
		case <-copied:
		case <-time.After(200 * time.Millisecond):
		}
		s.exited <- err
	}()
	return nil
}

func (s *session) press(keys ...string) {
	s.t.Helper()
	for _, k := range keys {
		if _, err := s.ptmx.Write([]byte(k)); err != nil {
			s.t.Fatalf("send %q: %v", k, err)
		}
	}
}

// the first frame waits on terminal queries that a pty never answers
const startupTimeout = 10 * time.Second

// ready waits for the first screen to show text
func (s *session) ready(text string) bool {
	s.t.Helper()
	return s.waitFor(func(out string) bool { return strings.Contains(out, text) }, startupTimeout)
}

// waitText polls the screen until text shows up
func (s *session) waitText(text string) bool {
	s.t.Helper()
	return s.waitFor(func(out string) bool { return strings.Contains(out, text) }, 3*time.Second)
}

func (s *session) waitFor(pred func(string) bool, timeout time.Duration) bool {
	s.t.Helper()
	for deadline := time.Now().Add(timeout); ; time.Sleep(25 * time.Millisecond) {
		if pred(s.screen.text()) {
			return true
		}
		if time.Now().After(deadline) {
			s.dumpTail(2048)
			return false
		}
	}
}

// wait returns the exit error of the process
func (s *session) wait(timeout time.Duration) error {
	s.t.Helper()
	select {
	case err := <-s.exited:
		return err
	case <-time.After(timeout):
		s.dumpTail(4096)
		return fmt.Errorf("itemlist still running after %s", timeout)
	}
}

func (s *session) dumpTail(n int) {
	out := s.screen.text()
	if len(out) > n {
		out = out[len(out)-n:]
	}
	s.t.Logf("screen tail:\n%s", out)
}

func (s *session) close() {
	// closing the pty hangs the child up
	if s.ptmx != nil {
		_ = s.ptmx.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}
