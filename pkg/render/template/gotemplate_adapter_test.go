package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formserve/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formserve/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := "Hello, Ada!\n"
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_Autoescape(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("escape.tpl", map[string]any{"raw": `<i>"x"</i>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "<b>&lt;i&gt;&quot;x&quot;&lt;/i&gt;</b>|<i>\"x\"</i>\n"
	if got != want {
		t.Fatalf("autoescape mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_StructData(t *testing.T) {
	engine := newEngine(t)

	type view struct {
		Name string `json:"name"`
	}
	got, err := engine.RenderTemplate("hello", view{Name: "Grace"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if got != "Hello, Grace!\n" {
		t.Fatalf("struct data mismatch, got %q", got)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := "<p>staging</p>\n"
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_WithGlobals(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(templatesFS, gotemplate.WithGlobals(map[string]any{
		"settings": map[string]any{"env": "production"},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("use-global.tpl", nil)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if want := "<p>production</p>\n"; got != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
	if want := "ADA!\n"; result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}

	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(nil); err == nil {
		t.Fatalf("expected error without a template filesystem")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(templatesFS)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
