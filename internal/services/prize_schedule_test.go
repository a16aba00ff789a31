package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleTierFor_Milestones(t *testing.T) {
	cases := []struct {
		name    string
		ordinal int64
		want    string
	}{
		{"first spin falls through to filler", 1, "p8"},
		{"spin 49 is filler", 49, "p8"},
		{"spin 50 is the first voucher", 50, "p7"},
		{"spin 101 is the first shirt", 101, "p5"},
		{"spin 501 is the first saree", 501, "p6"},
		{"spin 3001 is the first airfryer", 3001, "p3"},
		{"spin 43501 is the last airfryer", 43501, "p3"},
		{"spin 4000 is the first speaker", 4000, "p4"},
		{"spin 49000 is the last speaker", 49000, "p4"},
		{"spin 7200 is the smart tv", 7200, "p2"},
		{"spin 150001 is the grand prize", 150001, "p1"},
		{"spin 150000 is past the voucher cap", 150000, "p8"},
		{"spin 50001 is past every progression", 50001, "p8"},
		{"spin 49101 is still a shirt", 49101, "p5"},
		{"spin 49501 is past the shirt cap", 49501, "p8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScheduleTierFor(tc.ordinal))
		})
	}
}

// Ordinals divisible by 50 also satisfy the voucher rule; the higher-priority
// tier must win.
func TestScheduleTierFor_PriorityOverlaps(t *testing.T) {
	assert.Equal(t, "p4", ScheduleTierFor(4000), "speaker outranks voucher")
	assert.Equal(t, "p4", ScheduleTierFor(9000), "speaker outranks voucher")
	assert.Equal(t, "p2", ScheduleTierFor(7200), "smart tv outranks voucher")
	assert.Equal(t, "p7", ScheduleTierFor(7250), "plain multiple of 50 stays a voucher")
}

func TestScheduleTierFor_Deterministic(t *testing.T) {
	for _, n := range []int64{1, 50, 101, 7200, 150001, 999999} {
		first := ScheduleTierFor(n)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, ScheduleTierFor(n))
		}
	}
}

func TestScheduleTierFor_VoucherSpacing(t *testing.T) {
	// Every 50th ordinal in [50, 50000] resolves to p7 unless a higher rule
	// claims it first.
	for n := int64(50); n <= 50000; n += 50 {
		want := "p7"
		switch {
		case n == 7200:
			want = "p2"
		case progression(n, 4000, 5000, 49000):
			want = "p4"
		}
		assert.Equal(t, want, ScheduleTierFor(n), "ordinal %d", n)
	}
}
