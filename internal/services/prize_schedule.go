package services

// The wheel is deterministic: the Nth spin across the entire contest decides
// the prize, not chance. Each tier is seeded at fixed ordinals via an
// arithmetic progression, and the rules are evaluated top to bottom with the
// first match winning. The ordering is a compatibility requirement - an
// ordinal that satisfies two progressions must resolve to the higher rule.

// FillerTierID is the unlimited-stock default tier. It is both the
// schedule's "nothing matched" outcome and the fallback target when a
// scheduled tier is out of stock.
const FillerTierID = "p8"

// ScheduleRule pairs one tier with the predicate that seeds it
type ScheduleRule struct {
	TierID  string
	Matches func(n int64) bool
}

// progression reports whether n lies on the arithmetic progression
// first, first+step, ... capped at last.
func progression(n, first, step, last int64) bool {
	return n >= first && n <= last && (n-first)%step == 0
}

// scheduleRules is the reference allocation table, in strict priority
// order.
var scheduleRules = []ScheduleRule{
	// iPhone 17: the single grand prize
	{TierID: "p1", Matches: func(n int64) bool { return n == 150001 }},
	// Haier Smart TV
	{TierID: "p2", Matches: func(n int64) bool { return n == 7200 }},
	// iBell Airfryer: 3001, 7501, ... 43501
	{TierID: "p3", Matches: func(n int64) bool { return progression(n, 3001, 4500, 44000) }},
	// JBL GO Speaker: 4000, 9000, ... 49000
	{TierID: "p4", Matches: func(n int64) bool { return progression(n, 4000, 5000, 49000) }},
	// Shirt: 101, 1101, ... 49101
	{TierID: "p5", Matches: func(n int64) bool { return progression(n, 101, 1000, 49500) }},
	// Saree: 501, 1501, ... 49501
	{TierID: "p6", Matches: func(n int64) bool { return progression(n, 501, 1000, 49500) }},
	// Rs.500 voucher: every 50th spin up to 50000
	{TierID: "p7", Matches: func(n int64) bool { return progression(n, 50, 50, 50000) }},
}

// ScheduleTierFor maps an ordinal spin number to the prize tier it is
// scheduled to win. Pure and total for n >= 1: every ordinal resolves,
// with the filler tier as the default.
func ScheduleTierFor(n int64) string {
	for _, rule := range scheduleRules {
		if rule.Matches(n) {
			return rule.TierID
		}
	}
	return FillerTierID
}
