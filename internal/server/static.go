package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path"

	"github.com/maxbolgarin/servex/v2"
)

const (
	staticDir    = "static"
	staticPrefix = "/static/"
	indexFile    = "index.html"
)

//go:embed static
var staticFiles embed.FS

// staticRoutes returns a route for every embedded web client file.
func (s *Server) staticRoutes() map[string]http.HandlerFunc {
	sub, err := fs.Sub(staticFiles, staticDir)
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(staticPrefix, http.FileServer(http.FS(sub)))

	entries, err := fs.ReadDir(sub, ".")
	if err != nil {
		panic(err)
	}
	routes := make(map[string]http.HandlerFunc, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == indexFile {
			continue
		}
		routes[staticPrefix+e.Name()] = func(w http.ResponseWriter, r *http.Request) {
			if !allowMethod(servex.NewContext(w, r), r, http.MethodGet) {
				return
			}
			files.ServeHTTP(w, r)
		}
	}
	return routes
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if r.URL.Path != "/" {
		writeDetail(ctx, http.StatusNotFound, "not found")
		return
	}
	if !allowMethod(ctx, r, http.MethodGet) {
		return
	}

	page, err := staticFiles.ReadFile(path.Join(staticDir, indexFile))
	if err != nil {
		s.log.Err(err, "failed to read index page")
		writeDetail(ctx, http.StatusInternalServerError, "index page is not available")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
