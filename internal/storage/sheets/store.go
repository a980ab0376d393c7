package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/match"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"

	sheetsapi "github.com/ranajunaid001/second-braind-junaid/pkg/sheets"
)

// fieldKeys fixes the column order of each bucket tab. The bucket columns
// come first, then notes, message ref, archived flag and the two timestamps.
var fieldKeys = map[ledger.Bucket][]string{
	ledger.BucketPeople:     {"name", "context", "follow_ups"},
	ledger.BucketIdeas:      {"idea", "one_liner", "notes"},
	ledger.BucketInterviews: {"company", "role", "status", "next_step", "date"},
	ledger.BucketThings:     {"task", "status", "due", "next_action"},
	ledger.BucketLinkedIn:   {"idea", "notes", "status"},
}

// Store implements ledger.Store on a Google spreadsheet with one tab per
// bucket. Record refs are "Tab!row" coordinates. Row 1 of every tab is a
// header; data starts at row 2. Removed rows are cleared, not deleted, so
// refs stay stable.
type Store struct {
	client         *sheetsapi.Client
	matchThreshold float64
}

var _ ledger.Store = &Store{}

func NewStore(client *sheetsapi.Client, matchThreshold float64) *Store {
	if matchThreshold <= 0 {
		matchThreshold = match.DefaultThreshold
	}
	return &Store{
		client:         client,
		matchThreshold: matchThreshold,
	}
}

func (s *Store) CreateRecord(ctx context.Context, bucket ledger.Bucket, fields ledger.Fields, messageRef string) (ledger.RecordRef, error) {
	tab := bucket.Table()
	now := time.Now().UTC().Format(time.RFC3339)

	row, err := buildRow(bucket, fields, "", messageRef, false, now, now)
	if err != nil {
		return "", err
	}

	updatedRange, err := s.client.Append(ctx, tab+"!A:Z", row)
	if err != nil {
		return "", err
	}

	rowNum, err := rowFromRange(updatedRange)
	if err != nil {
		return "", err
	}

	return ledger.RecordRef(fmt.Sprintf("%s!%d", tab, rowNum)), nil
}

func (s *Store) AppendNote(ctx context.Context, ref ledger.RecordRef, text string, fields ledger.Fields, messageRef string) error {
	tab, rowNum, err := parseRef(ref)
	if err != nil {
		return err
	}
	bucket, ok := bucketForTab(tab)
	if !ok {
		return fmt.Errorf("unknown tab %q in ref %s", tab, ref)
	}

	rec, cells, err := s.readRow(ctx, bucket, tab, rowNum)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("entry %s not found", ref)
	}

	merged := ledger.MergeFields(rec.Fields, fields)
	notes := ledger.AppendNoteText(rec.Notes, text, time.Now())
	created := cellString(cells, len(fieldKeys[bucket])+3)
	updated := time.Now().UTC().Format(time.RFC3339)

	row, err := buildRow(bucket, merged, notes, rec.MessageRef, rec.Archived, created, updated)
	if err != nil {
		return err
	}

	return s.client.Update(ctx, fmt.Sprintf("%s!A%d", tab, rowNum), row)
}

func (s *Store) ListActive(ctx context.Context, bucket ledger.Bucket) ([]ledger.Record, error) {
	tab := bucket.Table()
	vr, err := s.client.Read(ctx, tab+"!A2:Z")
	if err != nil {
		return nil, err
	}

	var records []ledger.Record
	for i, cells := range vr.Values {
		rec, ok, err := rowToRecord(bucket, tab, i+2, cells)
		if err != nil {
			return nil, err
		}
		if !ok || rec.Archived {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) FindSimilar(ctx context.Context, name string) ([]ledger.Record, error) {
	people, err := s.ListActive(ctx, ledger.BucketPeople)
	if err != nil {
		return nil, err
	}
	return match.FindCandidates(name, people, s.matchThreshold), nil
}

func (s *Store) Get(ctx context.Context, ref ledger.RecordRef) (*ledger.Record, error) {
	tab, rowNum, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	bucket, ok := bucketForTab(tab)
	if !ok {
		return nil, fmt.Errorf("unknown tab %q in ref %s", tab, ref)
	}

	rec, _, err := s.readRow(ctx, bucket, tab, rowNum)
	return rec, err
}

func (s *Store) Remove(ctx context.Context, bucket ledger.Bucket, messageRef string) error {
	tab := bucket.Table()
	vr, err := s.client.Read(ctx, tab+"!A2:Z")
	if err != nil {
		return err
	}

	refCol := len(fieldKeys[bucket]) + 1
	for i, cells := range vr.Values {
		if cellString(cells, refCol) == messageRef {
			rowNum := i + 2
			return s.client.Clear(ctx, fmt.Sprintf("%s!A%d:Z%d", tab, rowNum, rowNum))
		}
	}

	return fmt.Errorf("no %s entry for message %s", bucket, messageRef)
}

func (s *Store) readRow(ctx context.Context, bucket ledger.Bucket, tab string, rowNum int) (*ledger.Record, []interface{}, error) {
	vr, err := s.client.Read(ctx, fmt.Sprintf("%s!A%d:Z%d", tab, rowNum, rowNum))
	if err != nil {
		return nil, nil, err
	}
	if len(vr.Values) == 0 {
		return nil, nil, nil
	}

	rec, ok, err := rowToRecord(bucket, tab, rowNum, vr.Values[0])
	if err != nil || !ok {
		return nil, nil, err
	}
	return &rec, vr.Values[0], nil
}

func buildRow(bucket ledger.Bucket, fields ledger.Fields, notes, messageRef string, archived bool, created, updated string) ([]interface{}, error) {
	raw, err := ledger.EncodeFields(fields)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	keys := fieldKeys[bucket]
	row := make([]interface{}, 0, len(keys)+5)
	for _, k := range keys {
		row = append(row, m[k])
	}

	archivedCell := ""
	if archived {
		archivedCell = "TRUE"
	}
	row = append(row, notes, messageRef, archivedCell, created, updated)
	return row, nil
}

func rowToRecord(bucket ledger.Bucket, tab string, rowNum int, cells []interface{}) (ledger.Record, bool, error) {
	keys := fieldKeys[bucket]

	// Cleared rows read back as fully blank; live rows always carry a
	// message ref.
	blank := true
	for i := 0; i < len(keys)+2; i++ {
		if cellString(cells, i) != "" {
			blank = false
			break
		}
	}
	if blank {
		return ledger.Record{}, false, nil
	}

	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = cellString(cells, i)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return ledger.Record{}, false, err
	}
	fields, err := ledger.DecodeFields(bucket, raw)
	if err != nil {
		return ledger.Record{}, false, fmt.Errorf("%s row %d: %w", tab, rowNum, err)
	}

	rec := ledger.Record{
		Ref:        ledger.RecordRef(fmt.Sprintf("%s!%d", tab, rowNum)),
		Bucket:     bucket,
		Fields:     fields,
		Notes:      cellString(cells, len(keys)),
		MessageRef: cellString(cells, len(keys)+1),
		Archived:   strings.EqualFold(cellString(cells, len(keys)+2), "TRUE"),
	}

	if t, err := time.Parse(time.RFC3339, cellString(cells, len(keys)+3)); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, cellString(cells, len(keys)+4)); err == nil {
		rec.UpdatedAt = t
	}

	return rec, true, nil
}

func cellString(cells []interface{}, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	s, _ := cells[i].(string)
	return strings.TrimSpace(s)
}

func parseRef(ref ledger.RecordRef) (string, int, error) {
	tab, rowPart, found := strings.Cut(string(ref), "!")
	if !found {
		return "", 0, fmt.Errorf("invalid record ref %q", ref)
	}
	rowNum, err := strconv.Atoi(rowPart)
	if err != nil || rowNum < 2 {
		return "", 0, fmt.Errorf("invalid record ref %q", ref)
	}
	return tab, rowNum, nil
}

// rowFromRange pulls the row number out of an updated range like
// "People!A7:H7".
func rowFromRange(a1 string) (int, error) {
	_, cells, found := strings.Cut(a1, "!")
	if !found {
		return 0, fmt.Errorf("unexpected range %q", a1)
	}
	first, _, _ := strings.Cut(cells, ":")
	i := 0
	for i < len(first) && (first[i] < '0' || first[i] > '9') {
		i++
	}
	rowNum, err := strconv.Atoi(first[i:])
	if err != nil {
		return 0, fmt.Errorf("unexpected range %q", a1)
	}
	return rowNum, nil
}

func bucketForTab(tab string) (ledger.Bucket, bool) {
	for _, b := range ledger.Buckets() {
		if b.Table() == tab {
			return b, true
		}
	}
	return "", false
}
