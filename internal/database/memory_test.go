package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/Alias1177/CryptoPredict/models"
)

func TestMemoryHistory(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(4)

	for i := 0; i < 6; i++ {
		user := "alice"
		if i%2 == 1 {
			user = "bob"
		}
		if err := h.SavePrediction(ctx, &models.PredictionResult{ID: fmt.Sprintf("p%d", i), UserID: user}); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := h.ListPredictions(ctx, "", 0)
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	if all[0].ID != "p5" || all[3].ID != "p2" {
		t.Errorf("order = %s..%s, want p5..p2", all[0].ID, all[3].ID)
	}

	alice, _ := h.ListPredictions(ctx, "alice", 10)
	if len(alice) != 2 || alice[0].ID != "p4" || alice[1].ID != "p2" {
		t.Errorf("alice = %+v", alice)
	}

	limited, _ := h.ListPredictions(ctx, "", 1)
	if len(limited) != 1 || limited[0].ID != "p5" {
		t.Errorf("limited = %+v", limited)
	}

	empty, _ := h.ListPredictions(ctx, "carol", 5)
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty = %#v, want empty non-nil slice", empty)
	}
}
