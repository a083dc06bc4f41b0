package index

// WeightedQuote couples a surviving quote with its strike spacing, the
// variance-swap weight for that strike.
type WeightedQuote struct {
	OptionQuote
	Spacing float64
}

// ComputeSpacing annotates every quote of a filtered chain with its spacing
// value, computed per (type) group sorted by strike:
//
//	interior strike: (nextStrike - prevStrike) / 2
//	edge strike:     distance to the single available neighbor, not halved
//
// The single-neighbor rule at the edges keeps the outermost strikes in the
// variance sum at full weight. A group with one strike gets spacing 0.
func ComputeSpacing(c Chain) []WeightedQuote {
	out := make([]WeightedQuote, 0, len(c.Quotes))
	for _, t := range []OptionType{Put, Call} {
		group := c.Side(t)
		for i, q := range group {
			var spacing float64
			switch {
			case len(group) < 2:
				spacing = 0
			case i == 0:
				spacing = group[1].Strike - q.Strike
			case i == len(group)-1:
				spacing = q.Strike - group[i-1].Strike
			default:
				spacing = (group[i+1].Strike - group[i-1].Strike) / 2
			}
			out = append(out, WeightedQuote{OptionQuote: q, Spacing: spacing})
		}
	}
	return out
}
