package livefeed

import "testing"

func TestParseItemID(t *testing.T) {
	tests := []struct {
		raw  string
		want ItemID
	}{
		{
			raw:  "OV190321250C13A_32_0U",
			want: ItemID{Kind: ItemEvent, EventID: "190321250", CategoryID: "13"},
		},
		{
			raw:  "6V190321250C13A",
			want: ItemID{Kind: ItemEvent, EventID: "190321250", CategoryID: "13"},
		},
		{
			raw:  "OV190321250C13-501_32_0U",
			want: ItemID{Kind: ItemMarket, EventID: "190321250", CategoryID: "13", MarketNum: "501"},
		},
		{
			raw:  "OV190340113-701873422_32_0U",
			want: ItemID{Kind: ItemSelection, FixtureID: "190340113", SelectionID: "701873422"},
		},
		{
			raw:  "OV190340113-0701873422_32_0U",
			want: ItemID{Kind: ItemSelection, FixtureID: "190340113", SelectionID: "701873422"},
		},
		{
			raw:  "OVES190340113-701873422",
			want: ItemID{Kind: ItemSelection, FixtureID: "190340113", SelectionID: "701873422"},
		},
		{
			raw:  "garbage_32_0U",
			want: ItemID{Kind: ItemUnknown},
		},
	}
	for _, tt := range tests {
		got := ParseItemID(tt.raw)
		if got != tt.want {
			t.Errorf("ParseItemID(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}
