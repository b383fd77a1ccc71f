package handler

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"time"
)

type DocsHandler struct {
	specPath string
}

func NewDocsHandler(specPath string) *DocsHandler {
	return &DocsHandler{specPath: strings.TrimSpace(specPath)}
}

// OpenAPI serves the OpenAPI document from disk so edits show up without a
// restart.
func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.specPath == "" {
		writeError(w, errDocsNotConfigured)
		return
	}

	info, err := os.Stat(h.specPath)
	if err != nil {
		writeError(w, errDocsNotFound)
		return
	}
	content, err := os.ReadFile(h.specPath)
	if err != nil {
		writeError(w, errDocsNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	http.ServeContent(w, r, "openapi.yaml", info.ModTime().Truncate(time.Second), bytes.NewReader(content))
}

func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data:")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerPage))
}

const swaggerPage = `<!doctype html>
<html lang="pt-BR">
  <head>
    <meta charset="utf-8" />
    <title>Field Tech API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
        persistAuthorization: true
      });
    </script>
  </body>
</html>`
