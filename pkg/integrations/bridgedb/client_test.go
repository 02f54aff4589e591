package bridgedb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

func TestClient_Xrefs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Homo sapiens/xrefs/L/8854" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("dataSource"); got != "E" {
			t.Errorf("dataSource = %q, want E", got)
		}
		w.Write([]byte("1.2.1.36\tEnzyme Nomenclature\n\n"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	xrefs, err := c.Xrefs(context.Background(), "Homo sapiens", "L", "8854", "E", true)
	if err != nil {
		t.Fatalf("Xrefs failed: %v", err)
	}
	if len(xrefs) != 1 {
		t.Fatalf("Xrefs() = %v, want 1 entry", xrefs)
	}
	if xrefs[0].ID != "1.2.1.36" || xrefs[0].DataSource != "Enzyme Nomenclature" {
		t.Errorf("Xrefs()[0] = %+v", xrefs[0])
	}
}

func TestClient_XrefsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	xrefs, err := c.Xrefs(context.Background(), "Homo sapiens", "L", "0", "E", true)
	if err != nil {
		t.Fatalf("Xrefs failed: %v", err)
	}
	if len(xrefs) != 0 {
		t.Errorf("Xrefs() = %v, want empty", xrefs)
	}
}

func TestParseXrefs(t *testing.T) {
	got := parseXrefs("a\tX\nmalformed\n\tY\nb\tZ\n")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("parseXrefs() = %v", got)
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "bridgedb", time.Hour, nil),
		baseURL: serverURL,
	}
}
