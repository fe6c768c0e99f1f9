// Copyright © 2024 The vuehelper authors

// Package lsp implements a Language Server Protocol server for component
// markup. It provides tag, attribute and attribute-value completion, hover
// documentation and go-to-definition.
package lsp

import (
	"os"
	"sync"

	"github.com/luthersystems/vuehelper/complete"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/luthersystems/vuehelper/navigate"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "vuehelper"

// Version is reported to clients in the initialize result.
var Version = "0.1.0"

// TriggerCharacters start a completion request without an explicit
// invocation.
var TriggerCharacters = []string{":", "<", `"`, "'", "/", "@", "(", ">", "{", " "}

// Server is the vuehelper language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	settings *config.Store
	base     *kb.KnowledgeBase
	provider *complete.Provider
	navigate *navigate.Resolver
	fs       afero.Fs
	logger   *zap.Logger

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithLogger sets the server logger. Logs must not go to stdout when the
// server runs over stdio.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithKnowledgeBase replaces the embedded Element UI knowledge base.
func WithKnowledgeBase(base *kb.KnowledgeBase) Option {
	return func(s *Server) { s.base = base }
}

// WithSettings uses a settings store built by the caller, typically from
// the command line configuration.
func WithSettings(store *config.Store) Option {
	return func(s *Server) { s.settings = store }
}

// WithFs sets the file system used to resolve imported components.
func WithFs(fs afero.Fs) Option {
	return func(s *Server) { s.fs = fs }
}

// New creates a new language server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:   NewDocumentStore(),
		logger: zap.NewNop(),
		fs:     afero.NewOsFs(),
		exitFn: os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.settings == nil {
		v := viper.New()
		config.SetDefaults(v)
		s.settings = config.NewStore(v)
	}
	if s.base == nil {
		s.base = kb.MustDefault()
	}
	s.provider = complete.NewProvider(s.base,
		complete.WithSettings(s.settings),
		complete.WithLogger(s.logger.Named("complete")))
	s.navigate = navigate.New(s.fs)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		WorkspaceDidChangeConfiguration: s.workspaceDidChangeConfiguration,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	if err := s.settings.Merge(params.InitializationOptions); err != nil {
		s.logger.Warn("ignoring initialization options", zap.Error(err))
	}

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: TriggerCharacters,
	}

	s.logger.Info("initialized",
		zap.String("root", s.rootPath),
		zap.Strings("languages", s.settings.Settings().Languages))

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &Version,
		},
	}, nil
}

// initialized handles the initialized notification.
func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	return nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(_ *glsp.Context) error {
	_ = s.logger.Sync()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// workspaceDidChangeConfiguration merges client settings. Documents keep
// their language; the new settings apply from the next request.
func (s *Server) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	s.captureNotify(ctx)
	if err := s.settings.Merge(params.Settings); err != nil {
		s.logger.Warn("ignoring configuration change", zap.Error(err))
		s.sendNotification(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: serverName + ": " + err.Error(),
		})
		return nil
	}
	st := s.settings.Settings()
	s.logger.Debug("configuration changed",
		zap.Int("indent-size", st.IndentSize),
		zap.String("quotes", st.Quotes),
		zap.Strings("languages", st.Languages))
	return nil
}

// captureNotify stores the notification function from the context for
// async use.
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
