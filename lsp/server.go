// Package lsp serves declaration outlines and syntax diagnostics for Hack
// and PHP files over the Language Server Protocol.
package lsp

import (
	"errors"
	"sync"

	"github.com/maypok86/otter"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/hhfacts/hack/facts"
	"github.com/dhamidi/hhfacts/hack/parser"
	"github.com/dhamidi/hhfacts/hack/syntax"
)

const lsName = "hhfacts"

var log = commonlog.GetLogger("hhfacts.lsp")

// analysis is what extraction produced for one text. Identical texts
// share it through the cache.
type analysis struct {
	facts *facts.Facts
	errs  []*parser.Error
	err   error
}

type document struct {
	uri      protocol.DocumentUri
	text     string
	lines    *syntax.LineIndex
	analysis *analysis
}

type Options struct {
	Env parser.Env
	// CacheSize is the number of analyses kept by content hash; 0
	// disables the cache.
	CacheSize int
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	env     parser.Env

	mu        sync.Mutex
	documents map[protocol.DocumentUri]*document
	cache     *otter.Cache[string, *analysis]
}

func NewServer(version string, opts Options) (*Server, error) {
	ls := &Server{
		version:   version,
		env:       opts.Env,
		documents: make(map[protocol.DocumentUri]*document),
	}
	if opts.CacheSize > 0 {
		cache, err := otter.MustBuilder[string, *analysis](opts.CacheSize).Build()
		if err != nil {
			return nil, err
		}
		ls.cache = &cache
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls, nil
}

func (ls *Server) RunStdio() error {
	defer ls.close()
	return ls.server.RunStdio()
}

func (ls *Server) close() {
	if ls.cache != nil {
		ls.cache.Close()
	}
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.update(params.TextDocument.URI, params.TextDocument.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	var text string
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		text = change.Text
	case protocol.TextDocumentContentChangeEvent:
		if change.Range != nil {
			log.Warningf("ignoring incremental change to %s", params.TextDocument.URI)
			return nil
		}
		text = change.Text
	default:
		return nil
	}
	doc := ls.update(params.TextDocument.URI, text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	doc := ls.update(params.TextDocument.URI, *params.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	ls.mu.Lock()
	doc, ok := ls.documents[params.TextDocument.URI]
	ls.mu.Unlock()
	if !ok {
		return []protocol.DocumentSymbol{}, nil
	}
	return documentSymbols(doc), nil
}

// update analyzes text and stores it as the current version of uri.
func (ls *Server) update(uri protocol.DocumentUri, text string) *document {
	doc := &document{
		uri:      uri,
		text:     text,
		lines:    syntax.NewLineIndex(text),
		analysis: ls.analyze([]byte(text)),
	}
	ls.mu.Lock()
	ls.documents[uri] = doc
	ls.mu.Unlock()
	return doc
}

func (ls *Server) analyze(src []byte) *analysis {
	hash := facts.ContentHash(src)
	if ls.cache != nil {
		if a, ok := ls.cache.Get(hash); ok {
			return a
		}
	}
	f, errs, err := facts.Extract(src, ls.env)
	a := &analysis{facts: f, errs: errs, err: err}
	if err != nil && !errors.Is(err, parser.ErrUntokenizable) {
		log.Errorf("extract facts: %v", err)
	}
	if ls.cache != nil {
		ls.cache.Set(hash, a)
	}
	return a
}

func (ls *Server) publish(ctx *glsp.Context, doc *document) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.uri,
		Diagnostics: diagnostics(doc),
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
