package stat

// FailureReason returns the lowest-valued stat. Ties go to the stat that
// comes first in All (TeamSpirit, Fatigue, Popularity, Strength).
func FailureReason(v Values) Stat {
	lowest := All[0]
	for _, s := range All[1:] {
		if v[s] < v[lowest] {
			lowest = s
		}
	}
	return lowest
}
