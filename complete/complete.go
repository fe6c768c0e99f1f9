// Copyright © 2024 The vuehelper authors

// Package complete is the completion entry point. It gates a request on the
// document language and template region, classifies the cursor context and
// resolves it to candidates.
package complete

import (
	"context"

	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/luthersystems/vuehelper/suggest"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracerName names the tracer completion spans are recorded on.
const TracerName = "github.com/luthersystems/vuehelper/complete"

// SettingsSource supplies the current settings. *config.Store implements
// it.
type SettingsSource interface {
	Settings() config.Settings
}

var _ SettingsSource = (*config.Store)(nil)

type staticSettings config.Settings

func (s staticSettings) Settings() config.Settings { return config.Settings(s) }

// Provider answers completion requests.
type Provider struct {
	resolver *suggest.Resolver
	settings SettingsSource
	logger   *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithSettings reads language gating from src on every request.
func WithSettings(src SettingsSource) Option {
	return func(p *Provider) { p.settings = src }
}

// WithStaticSettings uses fixed settings for language gating.
func WithStaticSettings(s config.Settings) Option {
	return WithSettings(staticSettings(s))
}

// NewProvider returns a provider over base. Without WithSettings the
// defaults of config.Default apply.
func NewProvider(base *kb.KnowledgeBase, opts ...Option) *Provider {
	p := &Provider{
		settings: staticSettings(config.Default()),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = suggest.New(base, suggest.WithLogger(p.logger))
	return p
}

// KnowledgeBase returns the knowledge base candidates are drawn from.
func (p *Provider) KnowledgeBase() *kb.KnowledgeBase { return p.resolver.KnowledgeBase() }

// Context classifies pos after applying the language and template gates.
// The second result is false when the request is gated out.
func (p *Provider) Context(doc document.Document, pos document.Position) (scanner.Context, bool) {
	s := p.settings.Settings()
	lang := doc.LanguageID()
	if !s.Supports(lang) {
		return scanner.Context{}, false
	}
	if s.TemplateGated(lang) && !scanner.InTemplateRegion(doc, pos) {
		return scanner.Context{}, false
	}
	return scanner.Classify(doc, pos), true
}

// Complete returns the candidates at pos. Bad or unrecognised text yields
// an empty list and a nil error. The only error is cancellation of ctx, in
// which case no candidates are returned.
func (p *Provider) Complete(ctx context.Context, doc document.Document, pos document.Position, req config.Request) ([]suggest.Candidate, error) {
	ctx, span := otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "complete.Complete",
		trace.WithAttributes(
			attribute.String("document.language", doc.LanguageID()),
			attribute.Int("position.line", pos.Line),
			attribute.Int("position.character", pos.Character),
		))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, p.cancelled(span, err)
	}
	cctx, ok := p.Context(doc, pos)
	if !ok {
		span.SetAttributes(attribute.Bool("complete.gated", true))
		p.logger.Debug("completion gated",
			zap.String("language", doc.LanguageID()),
			zap.Int("line", pos.Line),
			zap.Int("character", pos.Character))
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, p.cancelled(span, err)
	}

	var tag string
	if cctx.Tag != nil {
		tag = cctx.Tag.Text
	}
	span.SetAttributes(
		attribute.String("complete.kind", cctx.Kind.String()),
		attribute.String("complete.tag", tag),
		attribute.String("complete.attribute", cctx.Attribute),
	)

	candidates := p.resolver.Resolve(cctx, req)
	if err := ctx.Err(); err != nil {
		return nil, p.cancelled(span, err)
	}
	span.SetAttributes(attribute.Int("complete.count", len(candidates)))
	p.logger.Debug("completion",
		zap.Int("line", pos.Line),
		zap.Int("character", pos.Character),
		zap.Stringer("kind", cctx.Kind),
		zap.String("tag", tag),
		zap.String("attribute", cctx.Attribute),
		zap.Int("count", len(candidates)))
	return candidates, nil
}

func (p *Provider) cancelled(span trace.Span, err error) error {
	span.SetStatus(codes.Error, "cancelled")
	span.RecordError(err)
	p.logger.Debug("completion cancelled", zap.Error(err))
	return err
}
