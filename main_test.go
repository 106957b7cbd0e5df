package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"raw-loader/internal/extract"
	"raw-loader/internal/handlers"
	"raw-loader/internal/pipeline"
	"raw-loader/internal/pixel"
	"raw-loader/internal/rawconfig"
	"raw-loader/internal/startup"
)

type nopLoader struct{}

func (nopLoader) Load(context.Context, string, rawconfig.Options, pipeline.Slots) (*pipeline.Output, error) {
	return &pipeline.Output{Image: pixel.Placeholder()}, nil
}

func (nopLoader) Extract(context.Context, string, string) (pixel.CanonicalImage, extract.Report) {
	return pixel.Placeholder(), extract.Report{Placeholder: true}
}

func TestSetupRouter(t *testing.T) {
	h := handlers.New(nopLoader{}, &startup.Config{MediaDir: t.TempDir()}, startup.ToolStatus{Decoder: true})

	tests := []struct {
		name           string
		metricsEnabled bool
		method         string
		path           string
		want           int
	}{
		{"health", false, "GET", "/health", http.StatusOK},
		{"health head", false, "HEAD", "/healthz", http.StatusOK},
		{"liveness", false, "GET", "/livez", http.StatusOK},
		{"version", false, "GET", "/version", http.StatusOK},
		{"options", false, "GET", "/api/options", http.StatusOK},
		{"develop missing file", false, "GET", "/api/develop/missing.CR2", http.StatusNotFound},
		{"develop wrong method", false, "POST", "/api/develop/a.CR2", http.StatusMethodNotAllowed},
		{"metrics disabled", false, "GET", "/metrics", http.StatusNotFound},
		{"metrics enabled", true, "GET", "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(h, tt.metricsEnabled)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, http.NoBody))
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestSetupRouterRoutes(t *testing.T) {
	h := handlers.New(nopLoader{}, &startup.Config{MediaDir: t.TempDir()}, startup.ToolStatus{})
	routes, err := startup.GetRoutes(setupRouter(h, true))
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}

	want := map[string]bool{
		"/api/develop/{path:.*}":   false,
		"/api/preview/{path:.*}":   false,
		"/api/thumbnail/{path:.*}": false,
		"/api/info/{path:.*}":      false,
		"/metrics":                 false,
	}
	for _, route := range routes {
		if _, ok := want[route.Path]; ok {
			want[route.Path] = true
		}
	}
	for path, found := range want {
		if !found {
			t.Errorf("route %s not registered", path)
		}
	}
}
