package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/domain/events"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// SeedNodeID is the id of the Start node every session begins with
const SeedNodeID valueobjects.NodeID = "start"

// SessionOptions tunes an editor session
type SessionOptions struct {
	// Latency simulates the assistant's response time before interpretation
	Latency time.Duration
	// Timeout bounds the interpreter call itself
	Timeout      time.Duration
	SeedLabel    string
	SeedPosition valueobjects.Position
}

// DefaultSessionOptions mirrors the editor's stock behavior
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Latency:      1500 * time.Millisecond,
		Timeout:      5 * time.Second,
		SeedLabel:    "Start",
		SeedPosition: valueobjects.Position{X: 250, Y: 25},
	}
}

// GeneratedArtifact is the one live code artifact of a session. Source is
// the frozen graph it was generated from; later edits do not touch it.
type GeneratedArtifact struct {
	Source       aggregates.Snapshot      `json:"source"`
	Text         string                   `json:"text"`
	Warnings     []domainservices.Warning `json:"warnings"`
	GraphVersion int                      `json:"graphVersion"`
	GeneratedAt  time.Time                `json:"generatedAt"`
}

func (a *GeneratedArtifact) clone() *GeneratedArtifact {
	c := *a
	c.Source = a.Source.Clone()
	c.Warnings = append([]domainservices.Warning{}, a.Warnings...)
	return &c
}

// Change is delivered to session listeners after every committed change
type Change struct {
	SessionID string             `json:"sessionId"`
	Type      string             `json:"type"`
	Version   int                `json:"version"`
	Event     events.DomainEvent `json:"event"`
}

// Listener receives changes in commit order, one at a time. It is called
// outside the session lock and may read the session, but must not mutate it
// or block for long.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// EditorSession owns one graph and at most one generated artifact.
// All methods are safe for concurrent use.
type EditorSession struct {
	id        string
	createdAt time.Time

	mu          sync.Mutex
	graph       *aggregates.Graph
	artifact    *GeneratedArtifact
	interpreter domainservices.PromptInterpreter
	generator   domainservices.Generator
	opts        SessionOptions

	// held for the full duration of a prompt
	promptSlot *semaphore.Weighted

	// changes committed but not yet delivered, guarded by mu
	outbox    []Change
	deliverMu sync.Mutex

	listenerMu   sync.RWMutex
	listeners    []subscription
	nextListener int

	recorder Recorder
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEditorSession creates a session whose graph holds only the seed Start node.
func NewEditorSession(
	id string,
	interpreter domainservices.PromptInterpreter,
	generator domainservices.Generator,
	opts SessionOptions,
	recorder Recorder,
	logger *zap.Logger,
) (*EditorSession, error) {
	if interpreter == nil || generator == nil {
		return nil, pkgerrors.NewInternalError("session requires an interpreter and a generator")
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed, err := entities.NewNode(SeedNodeID, valueobjects.NodeKindStart, opts.SeedLabel, opts.SeedPosition)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "seed node")
	}
	graph := aggregates.NewGraph(aggregates.GraphID(id))
	if err := graph.ReplaceAll([]entities.Node{seed}, nil); err != nil {
		return nil, pkgerrors.Wrap(err, "seed graph")
	}
	graph.MarkEventsAsCommitted()

	return &EditorSession{
		id:          string(graph.ID()),
		createdAt:   time.Now(),
		graph:       graph,
		interpreter: interpreter,
		generator:   generator,
		opts:        opts,
		promptSlot:  semaphore.NewWeighted(1),
		recorder:    recorder,
		logger:      logger.With(zap.String("sessionID", string(graph.ID()))),
		tracer:      otel.Tracer("editor-session"),
		now:         time.Now,
	}, nil
}

// ID returns the session id
func (s *EditorSession) ID() string {
	return s.id
}

// CreatedAt returns when the session was opened
func (s *EditorSession) CreatedAt() time.Time {
	return s.createdAt
}

// Graph returns a snapshot of the current graph
func (s *EditorSession) Graph() aggregates.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Snapshot()
}

// Version returns the graph version
func (s *EditorSession) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Version()
}

// Artifact returns a copy of the current artifact, or nil if none was generated
func (s *EditorSession) Artifact() *GeneratedArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact == nil {
		return nil
	}
	return s.artifact.clone()
}

// PromptPending reports whether a prompt is in flight
func (s *EditorSession) PromptPending() bool {
	if !s.promptSlot.TryAcquire(1) {
		return true
	}
	s.promptSlot.Release(1)
	return false
}

// Reconfigure swaps the options and interpreter used by later prompts.
// A nil interpreter keeps the current one.
func (s *EditorSession) Reconfigure(opts SessionOptions, interpreter domainservices.PromptInterpreter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Latency = opts.Latency
	s.opts.Timeout = opts.Timeout
	if interpreter != nil {
		s.interpreter = interpreter
	}
}

// Subscribe registers a listener and returns its unsubscribe function
func (s *EditorSession) Subscribe(l Listener) func() {
	s.listenerMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenerMu.Lock()
			defer s.listenerMu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// AddNode appends a node. It fails with PromptPending while a prompt is in flight.
func (s *EditorSession) AddNode(ctx context.Context, kind valueobjects.NodeKind, label string, position valueobjects.Position) (valueobjects.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return "", pkgerrors.FromContext("add node", err)
	}

	s.mu.Lock()
	if err := s.checkNoPrompt(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	id, err := s.graph.AddNode(kind, label, position)
	s.enqueue(s.drainEvents()...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("Add node rejected", zap.Error(err))
		return "", err
	}

	s.recorder.RecordGraphMutation("node")
	s.publish()
	return id, nil
}

// AddEdge connects two existing nodes. It fails with PromptPending while a
// prompt is in flight and with InvalidReference when an endpoint is missing.
func (s *EditorSession) AddEdge(ctx context.Context, source, target valueobjects.NodeID, label string) (aggregates.EdgeResult, error) {
	if err := ctx.Err(); err != nil {
		return aggregates.EdgeResult{}, pkgerrors.FromContext("add edge", err)
	}

	s.mu.Lock()
	if err := s.checkNoPrompt(); err != nil {
		s.mu.Unlock()
		return aggregates.EdgeResult{}, err
	}
	result, err := s.graph.AddEdge(source, target, label)
	s.enqueue(s.drainEvents()...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("Add edge rejected", zap.Error(err))
		return aggregates.EdgeResult{}, err
	}
	if result.SelfLoop {
		s.logger.Info("Self-loop edge added",
			zap.String("edgeID", result.ID.String()),
			zap.String("nodeID", source.String()),
		)
	}

	s.recorder.RecordGraphMutation("edge")
	s.publish()
	return result, nil
}

// Load replaces the graph with an imported diagram. The import is validated
// as a whole, like a prompt edit.
func (s *EditorSession) Load(snapshot aggregates.Snapshot) error {
	s.mu.Lock()
	if err := s.checkNoPrompt(); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.graph.ReplaceAll(snapshot.Nodes, snapshot.Edges)
	s.enqueue(s.drainEvents()...)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.recorder.RecordGraphMutation("replace")
	s.publish()
	return nil
}

// checkNoPrompt must be called with s.mu held
func (s *EditorSession) checkNoPrompt() error {
	if !s.promptSlot.TryAcquire(1) {
		return pkgerrors.NewPromptPendingError()
	}
	s.promptSlot.Release(1)
	return nil
}

// SubmitPrompt interprets text and replaces the graph with the result.
// Only one prompt may be in flight; a second submission fails immediately
// with PromptPending. Cancelling ctx abandons the prompt and leaves the
// graph as it was. On failure a prompt.failed change carries the notice.
func (s *EditorSession) SubmitPrompt(ctx context.Context, text string) (string, error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "EditorSession.SubmitPrompt",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("prompt.length", len(text)),
		),
	)
	defer span.End()

	s.mu.Lock()
	if !s.promptSlot.TryAcquire(1) {
		s.mu.Unlock()
		err := pkgerrors.NewPromptPendingError()
		s.promptFailed(span, err, PromptRejected, start)
		return "", err
	}
	snapshot := s.graph.Snapshot()
	interpreter := s.interpreter
	opts := s.opts
	s.mu.Unlock()

	reply, err := s.runPrompt(ctx, text, snapshot, interpreter, opts)
	s.promptSlot.Release(1)

	if err != nil {
		outcome := PromptFailed
		if pkgerrors.IsCancelled(err) {
			outcome = PromptCancelled
		}
		s.promptFailed(span, err, outcome, start)
		return "", err
	}

	s.recorder.RecordPrompt(PromptApplied, s.now().Sub(start))
	span.SetStatus(codes.Ok, "")
	return reply, nil
}

// runPrompt holds the prompt slot for its whole duration
func (s *EditorSession) runPrompt(ctx context.Context, text string, snapshot aggregates.Snapshot, interpreter domainservices.PromptInterpreter, opts SessionOptions) (string, error) {
	if err := waitLatency(ctx, opts.Latency); err != nil {
		return "", err
	}

	cmd, err := interpretWithTimeout(ctx, interpreter, text, snapshot, opts.Timeout)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	// last chance to abandon before anything is committed
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return "", pkgerrors.FromContext("submit prompt", err)
	}
	if err := s.graph.ReplaceAll(cmd.Nodes, cmd.Edges); err != nil {
		s.mu.Unlock()
		return "", pkgerrors.Wrap(err, fmt.Sprintf("apply %q", cmd.Name))
	}
	version := s.graph.Version()
	s.enqueue(s.drainEvents()...)
	s.enqueue(Change{
		SessionID: s.id,
		Type:      events.TypePromptApplied,
		Version:   version,
		Event:     events.NewPromptApplied(s.id, version, cmd.Name, cmd.Reply, s.now()),
	})
	s.mu.Unlock()

	s.logger.Info("Prompt applied",
		zap.String("command", cmd.Name),
		zap.Int("nodes", len(cmd.Nodes)),
		zap.Int("edges", len(cmd.Edges)),
		zap.Int("version", version),
	)
	s.recorder.RecordGraphMutation("replace")
	s.publish()
	return cmd.Reply, nil
}

func (s *EditorSession) promptFailed(span trace.Span, err error, outcome string, start time.Time) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.recorder.RecordPrompt(outcome, s.now().Sub(start))

	if outcome == PromptFailed {
		s.logger.Warn("Prompt failed", zap.Error(err))
	} else {
		s.logger.Debug("Prompt not applied", zap.String("outcome", outcome), zap.Error(err))
	}

	s.mu.Lock()
	version := s.graph.Version()
	s.enqueue(Change{
		SessionID: s.id,
		Type:      events.TypePromptFailed,
		Version:   version,
		Event:     events.NewPromptFailed(s.id, version, pkgerrors.ToNotice(err), s.now()),
	})
	s.mu.Unlock()
	s.publish()
}

// waitLatency blocks for d unless ctx ends first
func waitLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.FromContext("submit prompt", err)
		}
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.NewCancelledError("submit prompt").WithCause(ctx.Err())
	}
}

type interpretResult struct {
	cmd domainservices.GraphEditCommand
	err error
}

// interpretWithTimeout runs the interpreter on its own goroutine so a slow
// implementation cannot hold the prompt slot past timeout. A late result is dropped.
func interpretWithTimeout(ctx context.Context, interpreter domainservices.PromptInterpreter, text string, snapshot aggregates.Snapshot, timeout time.Duration) (domainservices.GraphEditCommand, error) {
	ch := make(chan interpretResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- interpretResult{err: pkgerrors.NewInternalError(fmt.Sprintf("interpreter panic: %v", r))}
			}
		}()
		cmd, err := interpreter.Interpret(text, snapshot)
		ch <- interpretResult{cmd: cmd, err: err}
	}()

	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case res := <-ch:
		return res.cmd, res.err
	case <-timeoutC:
		return domainservices.GraphEditCommand{}, pkgerrors.NewTimeoutError("interpret prompt")
	case <-ctx.Done():
		return domainservices.GraphEditCommand{}, pkgerrors.NewCancelledError("submit prompt").WithCause(ctx.Err())
	}
}

// GenerateCode runs the code generator over a snapshot of the graph and keeps
// the result as the session's only artifact.
func (s *EditorSession) GenerateCode(ctx context.Context) (string, error) {
	artifact, err := s.Generate(ctx)
	if err != nil {
		return "", err
	}
	return artifact.Text, nil
}

// Generate is GenerateCode returning a copy of the artifact this call
// produced, even if another generation has replaced it since.
func (s *EditorSession) Generate(ctx context.Context) (*GeneratedArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.FromContext("generate code", err)
	}

	_, span := s.tracer.Start(ctx, "EditorSession.GenerateCode",
		trace.WithAttributes(attribute.String("session.id", s.id)),
	)
	defer span.End()

	start := s.now()

	s.mu.Lock()
	version := s.graph.Version()
	result := s.generator.Generate(s.graph.Snapshot())
	artifact := &GeneratedArtifact{
		Source:       result.Source,
		Text:         result.Text,
		Warnings:     result.Warnings,
		GraphVersion: version,
		GeneratedAt:  s.now(),
	}
	s.artifact = artifact
	s.enqueue(Change{
		SessionID: s.id,
		Type:      events.TypeArtifactGenerated,
		Version:   version,
		Event:     events.NewArtifactGenerated(s.id, version, len(result.Text), len(result.Warnings), s.now()),
	})
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("graph.version", version),
		attribute.Int("artifact.length", len(result.Text)),
		attribute.Int("artifact.warnings", len(result.Warnings)),
	)
	if len(result.Warnings) > 0 {
		s.logger.Info("Code generated with warnings", zap.Int("warnings", len(result.Warnings)))
	}

	s.recorder.RecordGeneration(len(result.Warnings), s.now().Sub(start))
	s.publish()
	return artifact.clone(), nil
}

// drainEvents must be called with s.mu held
func (s *EditorSession) drainEvents() []Change {
	pending := s.graph.GetUncommittedEvents()
	s.graph.MarkEventsAsCommitted()

	changes := make([]Change, 0, len(pending))
	for _, e := range pending {
		changes = append(changes, Change{
			SessionID: s.id,
			Type:      e.GetEventType(),
			Version:   e.GetVersion(),
			Event:     e,
		})
	}
	return changes
}

// enqueue must be called with s.mu held
func (s *EditorSession) enqueue(changes ...Change) {
	s.outbox = append(s.outbox, changes...)
}

// publish delivers every queued change. Changes are queued under s.mu and
// taken out under deliverMu, so listeners see them in version order even
// when several writers commit concurrently.
func (s *EditorSession) publish() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	batch := s.outbox
	s.outbox = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	s.listenerMu.RLock()
	subs := append([]subscription(nil), s.listeners...)
	s.listenerMu.RUnlock()

	for _, c := range batch {
		for _, sub := range subs {
			sub.fn(c)
		}
	}
}
