package audit

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRecordAndList(t *testing.T) {
	svc := New(NewMemoryStore())
	ctx := context.Background()

	if err := svc.Record(ctx, "m@example.com", ActionReportUpdate, EntityWorkReport, "r1", "req-1", "10.0.0.1", map[string]string{"a": "b"}, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.Record(ctx, "m@example.com", ActionReportDelete, EntityWorkReport, "r2", "req-2", "10.0.0.1", nil, nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	all, err := svc.List(ctx, Filter{}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].EntityID != "r2" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	updates, err := svc.List(ctx, Filter{Action: ActionReportUpdate}, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(updates) != 1 || updates[0].After != nil {
		t.Fatalf("unexpected updates: %+v", updates)
	}
	var before map[string]string
	if err := json.Unmarshal(updates[0].Before, &before); err != nil || before["a"] != "b" {
		t.Fatalf("unexpected before payload: %s", updates[0].Before)
	}
}
