package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anmi/model"
)

// isolate points the data directory and HOME at temp dirs so no real config is touched.
func isolate(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANMI_DATA_DIR", dataDir)
	t.Setenv("ANMI_API_URL", "")
	t.Setenv("ANMI_DEBUG", "")
	return dataDir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAskStreams(t *testing.T) {
	isolate(t)

	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.Header().Set("Content-Type", "text/event-stream")
		for _, tok := range []string{"La sangrecita ", "es rica ", "en hierro."} {
			fmt.Fprintf(w, "data: {\"token\":%q}\n\n", tok)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	out, _, err := run(t, "ask", "--api-url", srv.URL+"/api", "Alimentos", "ricos", "en", "hierro")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got := <-paths; got != "/api/chat/stream" {
		t.Errorf("path = %q", got)
	}
	if strings.TrimSpace(out) != "La sangrecita es rica en hierro." {
		t.Errorf("output = %q", out)
	}
}

func TestAskNoStream(t *testing.T) {
	isolate(t)

	type chatBody struct {
		Message  string `json:"message"`
		ThreadID string `json:"thread_id"`
	}
	bodies := make(chan chatBody, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var body chatBody
		json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"reply":"Lava bien los alimentos."}`)
	}))
	defer srv.Close()

	out, _, err := run(t, "ask", "--no-stream", "--api-url", srv.URL+"/api", "Preparación segura")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.TrimSpace(out) != "Lava bien los alimentos." {
		t.Errorf("output = %q", out)
	}
	if got := <-bodies; got.Message != "Preparación segura" || got.ThreadID == "" {
		t.Errorf("request = %+v", got)
	}
}

func TestAskServerErrorPrintsApology(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, _, err := run(t, "ask", "--api-url", srv.URL+"/api", "hola")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, model.ApologyText) {
		t.Errorf("output = %q, want the apology", out)
	}
}

func TestExport(t *testing.T) {
	isolate(t)

	src := filepath.Join(t.TempDir(), "respuesta.md")
	if err := os.WriteFile(src, []byte("# Hierro\n\n- Sangrecita\n- Bazo\n"), 0600); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "fichas")

	out, _, err := run(t, "export", src, "-o", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	path := strings.TrimSpace(out)
	if filepath.Dir(path) != outDir || !strings.HasPrefix(filepath.Base(path), "Ficha_ANMI_") {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("not a PDF")
	}
}

func TestExportDefaultsToDataDir(t *testing.T) {
	dataDir := isolate(t)

	src := filepath.Join(t.TempDir(), "respuesta.md")
	if err := os.WriteFile(src, []byte("Texto"), 0600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "export", src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if want := filepath.Join(dataDir, "exports"); filepath.Dir(strings.TrimSpace(out)) != want {
		t.Errorf("exported to %q, want under %q", out, want)
	}
}

func TestExportMissingFile(t *testing.T) {
	isolate(t)

	if _, _, err := run(t, "export", filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
