package resources

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed client/app.ts
var clientSource string

// Bundle is the compiled client script.
type Bundle struct {
	JS   []byte
	ETag string
}

// BuildClient compiles the client TypeScript into a single browser script.
func BuildClient(minify bool) (*Bundle, error) {
	buildOpts := api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   clientSource,
			Sourcefile: "app.ts",
			Loader:     api.LoaderTS,
		},
		Bundle: true,
		Write:  false,
		Outdir: "out",

		Platform: api.PlatformBrowser,
		Format:   api.FormatIIFE,
		Target:   api.ES2020,

		TreeShaking: api.TreeShakingTrue,
		Sourcemap:   api.SourceMapNone,
		LogLevel:    api.LogLevelSilent,
	}
	if minify {
		buildOpts.MinifyWhitespace = true
		buildOpts.MinifyIdentifiers = true
		buildOpts.MinifySyntax = true
	}

	result := api.Build(buildOpts)
	if len(result.Errors) > 0 {
		var msg strings.Builder
		for _, err := range result.Errors {
			if err.Location != nil {
				fmt.Fprintf(&msg, "%s:%d:%d: ", err.Location.File, err.Location.Line, err.Location.Column)
			}
			msg.WriteString(err.Text)
			msg.WriteByte('\n')
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", msg.String())
	}

	for _, file := range result.OutputFiles {
		if strings.HasSuffix(file.Path, ".js") {
			sum := sha256.Sum256(file.Contents)
			return &Bundle{
				JS:   file.Contents,
				ETag: `"` + hex.EncodeToString(sum[:8]) + `"`,
			}, nil
		}
	}
	return nil, fmt.Errorf("no JavaScript output generated")
}

// ServeHTTP serves the bundle, answering conditional requests by ETag.
func (b *Bundle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("ETag", b.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == b.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(b.JS)
}
