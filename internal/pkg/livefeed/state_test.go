package livefeed

import (
	"math"
	"reflect"
	"testing"
)

const tennisDumpPayload = "OVInPlay_32_0F|CL;CL=13;NA=Tennis;|CT;NA=ATP Santiago;CC=21124106;L3=ATP3-R2;|" +
	"EV;ID=190321250C13A_32_0;NA=Mariano Navone v Luciano Darderi;OI=190340113;SS=3-6,0-0;XP=40-15;PI=1,0;ES=2;CL=13;|" +
	"MA;ID=1763;NA=Money Line;SU=0;|" +
	"PA;ID=701873422;FI=190340113;OD=9/2;OR=0;SU=0;|" +
	"PA;ID=701873420;FI=190340113;OD=1/7;OR=1;SU=0;|"

// A full dump builds the complete match: teams, sets, current game,
// serving side, one market with two priced selections, and the fixture and
// selection reverse indexes. See the note on TestParseServing for the serving-side
// convention the expectations follow.
func TestFullDumpBuildsMatch(t *testing.T) {
	e := NewEngine()
	updates, err := e.Process([]byte(tennisDumpPayload))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("full dump should emit no updates, got %v", updates)
	}

	m, ok := e.Match("190321250")
	if !ok {
		t.Fatal("expected match 190321250 to exist")
	}
	if m.Team1 != "Mariano Navone" || m.Team2 != "Luciano Darderi" {
		t.Errorf("teams = %q / %q", m.Team1, m.Team2)
	}
	if m.SportName != "Tennis" {
		t.Errorf("sportName = %q, want Tennis", m.SportName)
	}
	wantSets := []SetScore{{3, 6}, {0, 0}}
	if !reflect.DeepEqual(m.Sets, wantSets) {
		t.Errorf("sets = %v, want %v", m.Sets, wantSets)
	}
	if m.CurrentGame != (GameScore{"40", "15"}) {
		t.Errorf("currentGame = %+v", m.CurrentGame)
	}
	if m.Serving != 1 {
		t.Errorf("serving = %d, want 1", m.Serving)
	}
	if m.Status != StatusInPlay {
		t.Errorf("status = %v, want in-play", m.Status)
	}
	if m.Markets.Len() != 1 {
		t.Fatalf("expected 1 market, got %d", m.Markets.Len())
	}
	market, ok := m.Markets.Get("1763")
	if !ok || len(market.Selections) != 2 {
		t.Fatalf("expected market 1763 with 2 selections, got %+v", market)
	}
	if market.Selections[0].Fractional != "9/2" || math.Abs(market.Selections[0].Decimal-5.5) > 1e-9 {
		t.Errorf("selection 0 = %+v", market.Selections[0])
	}
	wantDecimal1 := 1.0/7.0 + 1
	if market.Selections[1].Fractional != "1/7" || math.Abs(market.Selections[1].Decimal-wantDecimal1) > 1e-9 {
		t.Errorf("selection 1 = %+v", market.Selections[1])
	}

	eventID, ok := e.EventIDForFixture("190340113")
	if !ok || eventID != "190321250" {
		t.Errorf("fixtureToEvent lookup = (%q, %v), want (190321250, true)", eventID, ok)
	}
	info, ok := e.SelectionInfo("701873422")
	if !ok || info.FixtureID != "190340113" || info.Position != 0 {
		t.Errorf("selectionInfo[701873422] = %+v, %v", info, ok)
	}
}

// A game-won delta updates sets, current game and serving in one event.
// Per the serving convention (see TestParseServing), PI=0,1 yields
// serving=2 and the change string "serving: P2".
func TestGameWonDelta(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("full dump setup failed: %v", err)
	}

	updates, err := e.Process([]byte("OV190321250C13A_32_0U|PI=0,1;XP=0-0;SS=3-6,1-0;|"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d: %+v", len(updates), updates)
	}
	u := updates[0]
	if u.Type != "score" || u.EventID != "190321250" {
		t.Errorf("update = %+v", u)
	}
	wantChanges := []string{"sets: 3-6,1-0", "game: 0-0", "serving: P2"}
	if !reflect.DeepEqual(u.Changes, wantChanges) {
		t.Errorf("changes = %v, want %v", u.Changes, wantChanges)
	}

	m, _ := e.Match("190321250")
	if m.Serving != 2 {
		t.Errorf("serving = %d, want 2", m.Serving)
	}
	if m.CurrentGame != (GameScore{"0", "0"}) {
		t.Errorf("currentGame = %+v", m.CurrentGame)
	}
}

func TestOddsChangeDelta(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("full dump setup failed: %v", err)
	}

	updates, err := e.Process([]byte("OV190340113-701873422_32_0U|OD=4/1;|"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d: %+v", len(updates), updates)
	}
	u := updates[0]
	wantChanges := []string{"Mariano Navone: 9/2 → 4/1"}
	if u.Type != "odds" || !reflect.DeepEqual(u.Changes, wantChanges) {
		t.Errorf("update = %+v", u)
	}

	m, _ := e.Match("190321250")
	market, _ := m.Markets.Get("1763")
	if math.Abs(market.Selections[0].Decimal-5.0) > 1e-9 {
		t.Errorf("decimal = %v, want 5.0", market.Selections[0].Decimal)
	}
}

func TestDeleteRemovesMatchAndIndexes(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("full dump setup failed: %v", err)
	}

	updates, err := e.Process([]byte("OV190321250C13A_32_0D||"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(updates) != 1 || updates[0].Type != "delete" || !reflect.DeepEqual(updates[0].Changes, []string{"deleted"}) {
		t.Fatalf("update = %+v", updates)
	}

	if _, ok := e.Match("190321250"); ok {
		t.Error("expected match 190321250 to be removed")
	}
	if _, ok := e.EventIDForFixture("190340113"); ok {
		t.Error("expected fixtureToEvent entry removed")
	}
	if _, ok := e.EventIDForItem("190321250C13A"); ok {
		t.Error("expected itemToEvent entry removed")
	}
	if _, ok := e.SelectionInfo("701873422"); ok {
		t.Error("expected selectionInfo entry removed")
	}
}

func TestUnknownSportDropped(t *testing.T) {
	e := NewEngine()
	raw := "X_32_0F|CL;CL=999;NA=Curling;|EV;ID=1C999A;NA=A v B;CL=999;|"
	updates, err := e.Process([]byte(raw))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected no updates, got %v", updates)
	}
	if len(e.AllMatches()) != 0 {
		t.Fatalf("expected no matches, got %d", len(e.AllMatches()))
	}
}

// Every match with a fixtureId must be reachable through the reverse
// index.
func TestFixtureReverseIndex(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	for _, m := range e.AllMatches() {
		if m.FixtureID == "" {
			continue
		}
		eventID, ok := e.EventIDForFixture(m.FixtureID)
		if !ok || eventID != m.EventID {
			t.Errorf("fixtureToEvent[%q] = (%q, %v), want (%q, true)", m.FixtureID, eventID, ok, m.EventID)
		}
	}
}

// Every selection registered in selectionInfo carries the FI of its
// containing match.
func TestSelectionInfoConsistency(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	m, _ := e.Match("190321250")
	for _, market := range m.Markets.All() {
		for _, sel := range market.Selections {
			info, ok := e.SelectionInfo(sel.SelectionID)
			if !ok {
				t.Errorf("selectionInfo missing for %q", sel.SelectionID)
				continue
			}
			if info.FixtureID != m.FixtureID {
				t.Errorf("selectionInfo[%q].FixtureID = %q, want %q", sel.SelectionID, info.FixtureID, m.FixtureID)
			}
		}
	}
}

// Sports without a serving indicator always report serving == 0.
func TestNonServingSportAlwaysZero(t *testing.T) {
	e := NewEngine()
	raw := "X_32_0F|CL;CL=1;NA=Soccer;|EV;ID=1C1A;NA=Arsenal v Chelsea;CL=1;ES=1;|"
	if _, err := e.Process([]byte(raw)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	m, ok := e.Match("1")
	if !ok {
		t.Fatal("expected soccer match to exist")
	}
	if m.Serving != 0 {
		t.Errorf("serving = %d, want 0 for a non-serving sport", m.Serving)
	}
}

// Processing a concatenated payload must end in the same state as
// processing its halves in separate calls.
func TestConcatenationEquivalence(t *testing.T) {
	a := []byte(tennisDumpPayload)
	b := []byte("OV190321250C13A_32_0U|PI=0,1;XP=0-0;SS=3-6,1-0;|")

	combined := NewEngine()
	if _, err := combined.Process(append(append([]byte{}, a...), b...)); err != nil {
		t.Fatalf("combined Process failed: %v", err)
	}

	separate := NewEngine()
	if _, err := separate.Process(a); err != nil {
		t.Fatalf("separate Process(a) failed: %v", err)
	}
	if _, err := separate.Process(b); err != nil {
		t.Fatalf("separate Process(b) failed: %v", err)
	}

	mc, _ := combined.Match("190321250")
	ms, _ := separate.Match("190321250")
	if mc.Serving != ms.Serving || mc.ScoreRaw != ms.ScoreRaw || !reflect.DeepEqual(mc.Sets, ms.Sets) || mc.CurrentGame != ms.CurrentGame {
		t.Errorf("combined state %+v differs from separate state %+v", mc, ms)
	}
}

// A global InPlay dump resets state: afterwards only the events present
// in that dump exist.
func TestGlobalResetOnInPlayDump(t *testing.T) {
	e := NewEngine()
	if _, err := e.Process([]byte(tennisDumpPayload)); err != nil {
		t.Fatalf("first dump failed: %v", err)
	}
	if len(e.AllMatches()) != 1 {
		t.Fatalf("expected 1 match after first dump, got %d", len(e.AllMatches()))
	}

	second := "OVInPlay_32_0F|CL;CL=1;NA=Soccer;|EV;ID=2C1A;NA=Arsenal v Chelsea;CL=1;ES=1;|"
	if _, err := e.Process([]byte(second)); err != nil {
		t.Fatalf("second dump failed: %v", err)
	}
	matches := e.AllMatches()
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match after global reset, got %d", len(matches))
	}
	if matches[0].EventID != "2" {
		t.Errorf("expected surviving match eventId 2, got %q", matches[0].EventID)
	}
	if _, ok := e.Match("190321250"); ok {
		t.Error("expected previous match to be gone after global reset")
	}
}
