package placement

// letterGroups maps each letter to the group of the position it ends on.
var letterGroups = map[string]Group{}

// dashLetters are the Type 3 and Type 5 letters keyed with a "_dash" suffix.
var dashLetters = map[string]struct{}{}

func init() {
	register := func(g Group, letters ...string) {
		for _, l := range letters {
			letterGroups[l] = g
		}
	}

	register(GroupAlpha, "A", "B", "C", "D", "E", "F", "W", "X", "W-", "X-", "Φ", "Φ-", "α")
	register(GroupBeta, "G", "H", "I", "J", "K", "L", "Y", "Z", "Y-", "Z-", "Ψ", "Ψ-", "β")
	register(GroupGamma,
		"M", "N", "O", "P", "Q", "R", "S", "T", "U", "V",
		"Σ", "Δ", "θ", "Ω", "Σ-", "Δ-", "θ-", "Ω-", "Λ", "Λ-", "Γ")

	// Type 3
	for _, l := range []string{"W-", "X-", "Y-", "Z-", "Σ-", "Δ-", "θ-", "Ω-"} {
		dashLetters[l] = struct{}{}
	}
	// Type 5
	for _, l := range []string{"Φ-", "Ψ-", "Λ-"} {
		dashLetters[l] = struct{}{}
	}
}

// LetterGroup returns the group of letter and whether it is known.
func LetterGroup(letter string) (Group, bool) {
	g, ok := letterGroups[letter]
	return g, ok
}

func isDashLetter(letter string) bool {
	_, ok := dashLetters[letter]
	return ok
}
