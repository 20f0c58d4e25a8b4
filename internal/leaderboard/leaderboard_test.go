package leaderboard

import "testing"

func TestRankingsOrderedByScoreDescending(t *testing.T) {
	lb := New()
	lb.Update(Entry{UserID: 1, Username: "alice", Score: 100})
	lb.Update(Entry{UserID: 2, Username: "bob", Score: 250})
	lb.Update(Entry{UserID: 1, Username: "alice", Score: 300})

	rankings := lb.Rankings()
	if len(rankings) != 2 {
		t.Fatalf("rankings length = %d, want 2", len(rankings))
	}
	if rankings[0].UserID != 1 || rankings[0].Score != 300 {
		t.Errorf("rankings[0] = %+v, want {UserID:1 Score:300}", rankings[0])
	}
	if rankings[1].UserID != 2 || rankings[1].Score != 250 {
		t.Errorf("rankings[1] = %+v, want {UserID:2 Score:250}", rankings[1])
	}
}

func TestUpdateKeepsHighestScorePerUser(t *testing.T) {
	lb := New()
	lb.Update(Entry{UserID: 1, Score: 50})
	lb.Update(Entry{UserID: 1, Score: 20}) // lower score must not overwrite

	rankings := lb.Rankings()
	if len(rankings) != 1 {
		t.Fatalf("rankings length = %d, want 1", len(rankings))
	}
	if rankings[0].Score != 50 {
		t.Errorf("score = %d, want 50 (lower update must not regress it)", rankings[0].Score)
	}
}

func TestUpdateOneEntryPerUser(t *testing.T) {
	lb := New()
	for i := 0; i < 5; i++ {
		lb.Update(Entry{UserID: 7, Score: uint32(i)})
	}
	if got := len(lb.Rankings()); got != 1 {
		t.Errorf("rankings length = %d, want 1", got)
	}
}

func TestRankingsNonDestructive(t *testing.T) {
	lb := New()
	lb.Update(Entry{UserID: 1, Score: 10})

	first := lb.Rankings()
	second := lb.Rankings()
	if len(first) != len(second) {
		t.Fatalf("repeated Rankings() calls returned different lengths: %d vs %d", len(first), len(second))
	}
}
