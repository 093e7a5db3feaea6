package offercrawl

import "strings"

// Aggregate merges the candidates of one page into a final keyword set.
//
// Per exact text only the highest-confidence candidate is kept, the first
// one on ties. The survivors are then deduplicated case-insensitively until
// no merge applies: equal texts keep the higher confidence, a singular
// beats its plural, and a longer text beats any text it contains.
func Aggregate(candidates []Candidate) Keywords {
	var order []string
	best := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		prev, ok := best[c.Text]
		if !ok {
			order = append(order, c.Text)
			best[c.Text] = c
			continue
		}
		if c.Confidence > prev.Confidence {
			best[c.Text] = c
		}
	}

	for merged := true; merged; {
		merged = false
	scan:
		for i := 0; i < len(order); i++ {
			for j := i + 1; j < len(order); j++ {
				if drop, ok := pickDuplicate(best[order[i]], best[order[j]]); ok {
					victim := order[j]
					if drop == 0 {
						victim = order[i]
					}
					delete(best, victim)
					order = removeString(order, victim)
					merged = true
					break scan
				}
			}
		}
	}

	out := make(Keywords, len(order))
	for _, text := range order {
		c := best[text]
		out[text] = KeywordInfo{Confidence: c.Confidence, Method: c.Method, URL: c.SourceURL}
	}
	return out
}

// pickDuplicate reports whether a and b collide and, if so, which of the
// two (0 for a, 1 for b) is dropped. a precedes b in insertion order.
func pickDuplicate(a, b Candidate) (int, bool) {
	la, lb := strings.ToLower(a.Text), strings.ToLower(b.Text)
	switch {
	case la == lb:
		if b.Confidence > a.Confidence {
			return 0, true
		}
		return 1, true
	case la+"s" == lb:
		return 1, true
	case lb+"s" == la:
		return 0, true
	case strings.Contains(lb, la):
		return 0, true
	case strings.Contains(la, lb):
		return 1, true
	}
	return 0, false
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
