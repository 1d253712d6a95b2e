package bridge

import (
	"testing"

	"github.com/vellumos/webview/internal/types"
)

func TestStartFindEmptyValueIgnored(t *testing.T) {
	h := newHarness(t)

	h.bridge.StartFind("", types.FindOptions{Forward: true})
	h.bridge.Find("", false)

	if len(h.surface.FindCalls) != 0 {
		t.Error("empty value must never reach the surface")
	}
	if h.bridge.FindStarted() {
		t.Error("empty value must not change find state")
	}
}

func TestStartFindIssuesFreshSearch(t *testing.T) {
	h := newHarness(t)

	h.bridge.StartFind("foo", types.FindOptions{Forward: true, FindNext: true})
	if len(h.surface.FindCalls) != 1 {
		t.Fatal("StartFind must issue a search")
	}
	call := h.surface.FindCalls[0]
	if call.Opts.FindNext {
		t.Error("StartFind must always issue a fresh, non find-next search")
	}
	if !h.bridge.FindStarted() {
		t.Error("state must be Started")
	}
}

func TestFindAfterStartIsFindNext(t *testing.T) {
	h := newHarness(t)
	h.bridge.StartFind("foo", types.FindOptions{Forward: true})

	h.bridge.Find("foo", false)
	if len(h.surface.FindCalls) != 2 {
		t.Fatal("Find must issue a search")
	}
	call := h.surface.FindCalls[1]
	if !call.Opts.FindNext || !call.Opts.Forward {
		t.Errorf("expected forward find-next, got %+v", call.Opts)
	}
	if !h.bridge.FindStarted() {
		t.Error("state must remain Started")
	}
}

func TestFindPreviousReversesDirection(t *testing.T) {
	h := newHarness(t)
	h.bridge.StartFind("foo", types.FindOptions{Forward: true})

	h.bridge.Find("foo", true)
	call := h.surface.FindCalls[1]
	if call.Opts.Forward {
		t.Error("previous=true must search backward")
	}
}

func TestFindWithoutStartBehavesAsStart(t *testing.T) {
	h := newHarness(t)

	h.bridge.Find("bar", true)
	if len(h.surface.FindCalls) != 1 {
		t.Fatal("Find before StartFind must issue a fresh search")
	}
	call := h.surface.FindCalls[0]
	if call.Opts.FindNext {
		t.Error("first search must not be find-next")
	}
	if call.Opts.Forward {
		t.Error("derived direction must honor previous=true")
	}
	if !h.bridge.FindStarted() {
		t.Error("state must be Started")
	}
}

func TestStopFindAlwaysResetsAndSignalsNoResult(t *testing.T) {
	h := newHarness(t)

	var results []bool
	h.bridge.OnFindResult(func(hasResult bool) { results = append(results, hasResult) })

	// Never started: still idempotent, still signals false.
	h.bridge.StopFind(false)
	if len(results) != 1 || results[0] {
		t.Fatalf("StopFind must always emit a false has-result, got %v", results)
	}
	if h.bridge.FindStarted() {
		t.Error("state must be NotStarted")
	}

	h.bridge.StartFind("foo", types.FindOptions{Forward: true})
	h.bridge.StopFind(true)
	if len(h.surface.StopFindCalls) != 2 {
		t.Fatalf("expected stop issued to surface, got %d", len(h.surface.StopFindCalls))
	}
	if !h.surface.StopFindCalls[1].KeepSelection {
		t.Error("keepSelection must be forwarded")
	}
	if h.bridge.FindStarted() {
		t.Error("StopFind must return to NotStarted")
	}
}

func TestFoundInPageDrivesHasResult(t *testing.T) {
	h := newHarness(t)

	var results []bool
	h.bridge.OnFindResult(func(hasResult bool) { results = append(results, hasResult) })

	h.bridge.StartFind("foo", types.FindOptions{Forward: true})
	h.transport.EmitInbound(types.Message{
		Channel: ChannelFoundInPage,
		Payload: map[string]any{"matches": 3.0, "activeMatchOrdinal": 1.0},
	})
	h.transport.EmitInbound(types.Message{
		Channel: ChannelFoundInPage,
		Payload: map[string]any{"matches": 0.0},
	})

	if len(results) != 2 || !results[0] || results[1] {
		t.Errorf("expected [true false], got %v", results)
	}
}
