package game

// Score evaluates guess against solution with the two-pass counted-multiset rule.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count the solution letters that were not matched.
//
// Pass 2:
//   - For each remaining guess letter: if its count is still positive, mark Present
//     and decrement; otherwise mark Absent.
//
// So a letter is never marked Correct+Present more often than it occurs in the
// solution, and Correct positions are always served first.
//
// Both words are expected to be normalized lowercase a–z of equal length.
// Bytes outside a–z never match and score Absent.
func Score(guess, solution string) []Status {
	n := len(guess)
	res := make([]Status, n)

	var counts [26]int
	for i := 0; i < n; i++ {
		if i < len(solution) && guess[i] == solution[i] && isLower(guess[i]) {
			res[i] = StatusCorrect
		} else if i < len(solution) && isLower(solution[i]) {
			counts[solution[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == StatusCorrect {
			continue
		}
		c := guess[i]
		if isLower(c) && counts[c-'a'] > 0 {
			res[i] = StatusPresent
			counts[c-'a']--
		} else {
			res[i] = StatusAbsent
		}
	}
	return res
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// allCorrect returns true if every status is Correct.
func allCorrect(m []Status) bool {
	for _, s := range m {
		if s != StatusCorrect {
			return false
		}
	}
	return true
}
