package source

import (
	"bytes"
	"html"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// markdown renders reports. The configuration never changes and goldmark
// keeps per-call state in Convert, so one instance is shared.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.DefinitionList, extension.Footnote),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(codeHighlighter{}, 200)),
	),
)

// codeFormatter emits inline styles so report HTML needs no stylesheet
var codeFormatter = chromahtml.New(chromahtml.WithClasses(false))

var codeStyle = styles.Get("monokai")

// codeHighlighter renders fenced code blocks that name a language with
// Chroma inline styles. Unlabelled or unknown blocks stay plain.
type codeHighlighter struct{}

func (codeHighlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, renderFencedCode)
}

func renderFencedCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code []byte
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code = append(code, segment.Value(source)...)
	}

	if language := string(block.Language(source)); language != "" {
		if highlightCode(w, string(code), language) {
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code>")
	_, _ = w.WriteString(html.EscapeString(string(code)))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

// highlightCode writes code highlighted for language. It reports false,
// having written nothing, when no lexer matches the language.
func highlightCode(w util.BufWriter, code, language string) bool {
	lexer := lexers.Get(language)
	if lexer == nil {
		return false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, codeStyle, iterator); err != nil {
		return false
	}
	_, _ = w.Write(buf.Bytes())
	return true
}
