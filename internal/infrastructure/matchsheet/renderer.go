package matchsheet

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/riskibarqy/match-roster/internal/domain/matchsheet"
	"github.com/valyala/bytebufferpool"
)

//go:embed sheet.html.tmpl
var sheetTemplate string

var parsedSheet = template.Must(template.New("sheet").Parse(sheetTemplate))

// HTMLRenderer prints the match sheet as a self-contained A4 HTML page.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: parsedSheet}
}

func (r *HTMLRenderer) Render(ctx context.Context, doc matchsheet.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.tmpl.Execute(buf, doc); err != nil {
		return nil, fmt.Errorf("execute sheet template: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *HTMLRenderer) Extension() string {
	return "html"
}
