package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRecordLaunch_AssignsSessionAndID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	l := &Launch{Scope: "apps", Identity: "Firefox", TsMs: 100}
	if err := store.RecordLaunch(ctx, l); err != nil {
		t.Fatalf("RecordLaunch() error = %v", err)
	}
	if l.ID == 0 {
		t.Error("ID not set")
	}
	if _, err := uuid.Parse(l.SessionID); err != nil {
		t.Errorf("SessionID %q is not a uuid: %v", l.SessionID, err)
	}
}

func TestRecordLaunch_Rejects(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.RecordLaunch(ctx, &Launch{Scope: "apps"}); err == nil {
		t.Error("empty identity should fail")
	}
	if err := store.RecordLaunch(ctx, &Launch{Scope: "apps", Identity: "x", SessionID: "nope"}); err == nil {
		t.Error("malformed session id should fail")
	}
}

func TestQueryLaunches(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	session := NewSessionID()
	launches := []Launch{
		{SessionID: session, Scope: "apps", Identity: "Files", TsMs: 100},
		{SessionID: session, Scope: "apps", Identity: "Firefox", TsMs: 300},
		{SessionID: session, Scope: "dmenu", Identity: "ls -la", TsMs: 200},
		{Scope: "apps", Identity: "Calculator", TsMs: 50},
	}
	for i := range launches {
		if err := store.RecordLaunch(ctx, &launches[i]); err != nil {
			t.Fatalf("RecordLaunch() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query LaunchQuery
		want  []string
	}{
		{"all newest first", LaunchQuery{}, []string{"Firefox", "ls -la", "Files", "Calculator"}},
		{"scope", LaunchQuery{Scope: "apps"}, []string{"Firefox", "Files", "Calculator"}},
		{"session", LaunchQuery{SessionID: session}, []string{"Firefox", "ls -la", "Files"}},
		{"limit", LaunchQuery{Limit: 1}, []string{"Firefox"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryLaunches(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryLaunches() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("QueryLaunches() = %d rows, want %d", len(got), len(tt.want))
			}
			for i, l := range got {
				if l.Identity != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, l.Identity, tt.want[i])
				}
			}
		})
	}
}

func TestClipTags(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.AddClipTags(ctx, "7", "work", " ", "urgent", "work"); err != nil {
		t.Fatalf("AddClipTags() error = %v", err)
	}
	if err := store.AddClipTags(ctx, "9", "home"); err != nil {
		t.Fatalf("AddClipTags() error = %v", err)
	}
	if err := store.AddClipTags(ctx, "", "x"); err == nil {
		t.Error("empty clip id should fail")
	}

	tags, err := store.ClipTags(ctx)
	if err != nil {
		t.Fatalf("ClipTags() error = %v", err)
	}
	if got := tags["7"]; len(got) != 2 || got[0] != "urgent" || got[1] != "work" {
		t.Errorf("tags[7] = %v, want [urgent work]", got)
	}

	if err := store.ClearClipTags(ctx, "7"); err != nil {
		t.Fatalf("ClearClipTags() error = %v", err)
	}
	tags, _ = store.ClipTags(ctx)
	if _, ok := tags["7"]; ok {
		t.Error("tags[7] should be cleared")
	}
	if len(tags["9"]) != 1 {
		t.Errorf("tags[9] = %v", tags["9"])
	}
}
