package parserutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mazyy/RobbinOdds/internal/pkg/interfaces"
)

type fakeParser struct {
	name string
	err  error
	runs atomic.Int32
}

func (p *fakeParser) Start(ctx context.Context) error { return p.run(ctx) }
func (p *fakeParser) ParseOnce(ctx context.Context) error {
	return p.run(ctx)
}
func (p *fakeParser) run(context.Context) error {
	p.runs.Add(1)
	return p.err
}
func (p *fakeParser) Stop() error     { return nil }
func (p *fakeParser) GetName() string { return p.name }

func TestRunParsersWaitsForCompletion(t *testing.T) {
	parsers := []interfaces.Parser{
		&fakeParser{name: "a"},
		&fakeParser{name: "b"},
		&fakeParser{name: "c"},
	}

	opts := AsyncRunOptions()
	opts.WaitForCompletion = true
	err := RunParsers(context.Background(), parsers, func(ctx context.Context, p interfaces.Parser) error {
		return p.ParseOnce(ctx)
	}, opts)
	if err != nil {
		t.Fatalf("RunParsers() error: %v", err)
	}

	for _, p := range parsers {
		fp := p.(*fakeParser)
		if got := fp.runs.Load(); got != 1 {
			t.Errorf("parser %s ran %d times, want 1", fp.name, got)
		}
	}
}

func TestRunParsersReportsErrors(t *testing.T) {
	wantErr := errors.New("boom")
	parsers := []interfaces.Parser{
		&fakeParser{name: "ok"},
		&fakeParser{name: "broken", err: wantErr},
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	opts := AsyncRunOptions()
	opts.WaitForCompletion = true
	opts.OnError = func(p interfaces.Parser, err error) {
		mu.Lock()
		defer mu.Unlock()
		if errors.Is(err, wantErr) {
			failed = append(failed, p.GetName())
		}
	}

	_ = RunParsers(context.Background(), parsers, func(ctx context.Context, p interfaces.Parser) error {
		return p.ParseOnce(ctx)
	}, opts)

	if len(failed) != 1 || failed[0] != "broken" {
		t.Errorf("failed = %v, want [broken]", failed)
	}
}

func TestRunParsersSkipsErrorAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	opts := AsyncRunOptions()
	opts.WaitForCompletion = true
	opts.OnError = func(interfaces.Parser, error) { called.Store(true) }

	_ = RunParsers(ctx, []interfaces.Parser{&fakeParser{name: "a", err: errors.New("late")}},
		func(ctx context.Context, p interfaces.Parser) error {
			return p.ParseOnce(ctx)
		}, opts)

	// Errors after cancellation are expected shutdown noise, not failures.
	if called.Load() {
		t.Error("OnError called for an error after context cancellation")
	}
}

func TestRunParsersEmptyList(t *testing.T) {
	if err := RunParsers(context.Background(), nil, nil, AsyncRunOptions()); err != nil {
		t.Errorf("RunParsers(nil) = %v", err)
	}
}

func TestCreateCycleContext(t *testing.T) {
	ctx, cancel := CreateCycleContext(context.Background(), time.Minute)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("positive timeout should set a deadline")
	}

	ctx2, cancel2 := CreateCycleContext(context.Background(), 0)
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Error("zero timeout must not set a deadline")
	}
}
