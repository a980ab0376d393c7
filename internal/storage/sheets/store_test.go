package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"

	sheetsapi "github.com/ranajunaid001/second-braind-junaid/pkg/sheets"
)

func TestRowRoundTrip(t *testing.T) {
	fields := ledger.PersonFields{Name: "Sarah", Context: "PM at Google", FollowUps: "send deck"}
	row, err := buildRow(ledger.BucketPeople, fields, "[2026-01-19] met at gym", "msg-1", false, "2026-01-19T10:00:00Z", "2026-01-20T10:00:00Z")
	if err != nil {
		t.Fatalf("buildRow: %v", err)
	}

	rec, ok, err := rowToRecord(ledger.BucketPeople, "People", 7, row)
	if err != nil || !ok {
		t.Fatalf("rowToRecord ok=%v err=%v", ok, err)
	}

	if rec.Ref != "People!7" {
		t.Errorf("Ref = %q, want People!7", rec.Ref)
	}
	got, ok := rec.Fields.(ledger.PersonFields)
	if !ok || got != fields {
		t.Errorf("Fields = %+v, want %+v", rec.Fields, fields)
	}
	if rec.Notes != "[2026-01-19] met at gym" || rec.MessageRef != "msg-1" {
		t.Errorf("Notes/MessageRef = %q/%q", rec.Notes, rec.MessageRef)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps did not parse")
	}
}

func TestRowToRecordSkipsClearedRow(t *testing.T) {
	_, ok, err := rowToRecord(ledger.BucketThings, "Things", 4, []interface{}{"", "", "", "", "", ""})
	if err != nil {
		t.Fatalf("rowToRecord: %v", err)
	}
	if ok {
		t.Error("cleared row came back as a record")
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		tab     string
		row     int
		wantErr bool
	}{
		{"People!7", "People", 7, false},
		{"LinkedIn!2", "LinkedIn", 2, false},
		{"People!1", "", 0, true},
		{"no-separator", "", 0, true},
		{"People!abc", "", 0, true},
	}
	for _, tt := range tests {
		tab, row, err := parseRef(ledger.RecordRef(tt.ref))
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRef(%q) err = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (tab != tt.tab || row != tt.row) {
			t.Errorf("parseRef(%q) = %s, %d, want %s, %d", tt.ref, tab, row, tt.tab, tt.row)
		}
	}
}

func TestRowFromRange(t *testing.T) {
	row, err := rowFromRange("People!A7:H7")
	if err != nil || row != 7 {
		t.Errorf("rowFromRange = %d, %v, want 7", row, err)
	}
	row, err = rowFromRange("Things!C12")
	if err != nil || row != 12 {
		t.Errorf("rowFromRange = %d, %v, want 12", row, err)
	}
	if _, err := rowFromRange("garbage"); err == nil {
		t.Error("expected error for range without tab")
	}
}

func TestCreateRecordReturnsRowRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":append") && !strings.Contains(r.URL.RawPath, ":append") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"updates":{"updatedRange":"People!A9:H9"}}`))
	}))
	defer srv.Close()

	store := NewStore(sheetsapi.NewClientWithHTTP("sheet-id", srv.URL, srv.Client()), 0.8)
	ref, err := store.CreateRecord(context.Background(), ledger.BucketPeople, ledger.PersonFields{Name: "Julia"}, "msg-5")
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if ref != "People!9" {
		t.Errorf("ref = %q, want People!9", ref)
	}
}

func TestListActiveSkipsArchivedAndCleared(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"range":"Things!A2:Z4","values":[
			["buy milk","Open","","","","msg-1","","2026-01-10T00:00:00Z","2026-01-10T00:00:00Z"],
			["","","","","","","","",""],
			["call bank","Open","","","","msg-3","TRUE","2026-01-12T00:00:00Z","2026-01-12T00:00:00Z"]
		]}`))
	}))
	defer srv.Close()

	store := NewStore(sheetsapi.NewClientWithHTTP("sheet-id", srv.URL, srv.Client()), 0.8)
	records, err := store.ListActive(context.Background(), ledger.BucketThings)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1 (%+v)", len(records), records)
	}
	if records[0].Ref != "Things!2" {
		t.Errorf("Ref = %q, want Things!2", records[0].Ref)
	}
	if f, ok := records[0].Fields.(ledger.ThingFields); !ok || f.Task != "buy milk" {
		t.Errorf("Fields = %+v, want buy milk", records[0].Fields)
	}
}
