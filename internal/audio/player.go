package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// CommandFunc builds the process that plays source until it ends or ctx is cancelled.
type CommandFunc func(ctx context.Context, source string) *exec.Cmd

// FFPlay plays source with ffplay and no window.
func FFPlay(ctx context.Context, source string) *exec.Cmd {
	return exec.CommandContext(ctx, "ffplay",
		"-autoexit",
		"-nodisp",
		"-loglevel", "quiet",
		source)
}

type playback struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Player plays at most one preview at a time. Starting a preview stops the
// current one; starting the one already playing just stops it.
type Player struct {
	mu      sync.Mutex
	command CommandFunc
	current *playback
}

// NewPlayer creates a player. A nil command uses FFPlay.
func NewPlayer(command CommandFunc) *Player {
	if command == nil {
		command = FFPlay
	}
	return &Player{command: command}
}

// Play toggles the preview id. It reports whether id is now playing.
// Playback outlives ctx's cancellation; use Stop to end it.
func (p *Player) Play(ctx context.Context, id, source string) (bool, error) {
	return p.play(ctx, id, source, nil)
}

// PlayData writes data to a temporary file and plays it as id. The file is
// removed when playback ends.
func (p *Player) PlayData(ctx context.Context, id string, data []byte, ext string) (bool, error) {
	f, err := os.CreateTemp("", "preview-*"+ext)
	if err != nil {
		return false, fmt.Errorf("failed to create preview file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return false, fmt.Errorf("failed to write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return false, fmt.Errorf("failed to write preview file: %w", err)
	}

	playing, err := p.play(ctx, id, f.Name(), cleanup)
	if !playing {
		cleanup()
	}
	return playing, err
}

func (p *Player) play(ctx context.Context, id, source string, cleanup func()) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur := p.current; cur != nil {
		p.stopLocked()
		if cur.id == id {
			return false, nil
		}
	}

	pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cmd := p.command(pctx, source)
	if err := cmd.Start(); err != nil {
		cancel()
		return false, fmt.Errorf("failed to start playback: %w", err)
	}

	pb := &playback{id: id, cancel: cancel, done: make(chan struct{})}
	p.current = pb

	go func() {
		err := cmd.Wait()
		if err != nil && pctx.Err() == nil {
			slog.Debug("Preview playback failed", "id", id, "error", err)
		}
		cancel()
		if cleanup != nil {
			cleanup()
		}
		close(pb.done)

		p.mu.Lock()
		if p.current == pb {
			p.current = nil
		}
		p.mu.Unlock()
	}()

	return true, nil
}

// Stop ends the current preview, if any, and waits for it to exit.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.current.cancel()
	<-p.current.done
	p.current = nil
}

// Playing returns the id of the current preview, or "" when idle.
func (p *Player) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ""
	}
	select {
	case <-p.current.done:
		return ""
	default:
		return p.current.id
	}
}

// Wait blocks until the current preview ends or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	if cur == nil {
		return nil
	}
	select {
	case <-cur.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
