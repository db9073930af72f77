package livefeed

import (
	"reflect"
	"testing"
)

func TestSplitFrames_ControlBytes(t *testing.T) {
	raw := []byte("\x15HEADER1F|REC1;|\x08\x15HEADER2U|F=1;|")
	got := SplitFrames(raw)
	want := []SubMessage{
		{Header: "HEADER1F", Parts: []string{"REC1;"}},
		{Header: "HEADER2U", Parts: []string{"F=1;"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFrames(control bytes) = %+v, want %+v", got, want)
	}
}

func TestSplitFrames_CleanFallback(t *testing.T) {
	raw := []byte("OVInPlay_32_0F|CL;CL=13;|EV;ID=1C13A;|")
	got := SplitFrames(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 sub-message, got %d: %+v", len(got), got)
	}
	if got[0].Header != "OVInPlay_32_0F" {
		t.Errorf("header = %q, want OVInPlay_32_0F", got[0].Header)
	}
	wantParts := []string{"CL;CL=13;", "EV;ID=1C13A;"}
	if !reflect.DeepEqual(got[0].Parts, wantParts) {
		t.Errorf("parts = %v, want %v", got[0].Parts, wantParts)
	}
}

func TestSplitFrames_CleanFallbackMultipleHeaders(t *testing.T) {
	raw := []byte("OVInPlay_32_0F|CL;CL=13;|OV1C13A_32_0U|PI=1,0;|")
	got := SplitFrames(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 sub-messages, got %d: %+v", len(got), got)
	}
	if got[0].Header != "OVInPlay_32_0F" || got[1].Header != "OV1C13A_32_0U" {
		t.Errorf("unexpected headers: %+v", got)
	}
}

func TestSplitFrames_EmptyAndControlSkip(t *testing.T) {
	raw := []byte("\x00\x01\x15__time|X=1;|\x08")
	got := SplitFrames(raw)
	if len(got) != 1 || got[0].Header != "__time" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestIsTopicHeader(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"OVInPlay_32_0F", true},
		{"OV190321250C13A_32_0U", true},
		{"OV190321250C13A_32U", true},
		{"EMPTYF", true},
		{"emptyu", true},
		{"__time", true},
		{"#P__time,...", true},
		{"CL;CL=13;", false},
		{"random", false},
	}
	for _, tt := range tests {
		if got := isTopicHeader(tt.in); got != tt.want {
			t.Errorf("isTopicHeader(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
