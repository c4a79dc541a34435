package analyzer

// rung is one step of a threshold ladder: values strictly above the bound
// select the text.
type rung struct {
	above float64
	text  string
}

// ladder maps a metric to the text of the first rung it exceeds, or floor.
type ladder struct {
	rungs []rung
	floor string
}

func (l ladder) pick(v float64) string {
	for _, r := range l.rungs {
		if v > r.above {
			return r.text
		}
	}
	return l.floor
}

// Policy turns metrics into findings. Each metric yields exactly one
// sentence, followed by the policy's fixed closing statements.
type Policy struct {
	Name       string
	symmetry   ladder
	density    ladder
	complexity ladder
	closing    []string
}

// Findings returns the ordered finding sentences for m.
func (p Policy) Findings(m Metrics) []string {
	out := make([]string, 0, 3+len(p.closing))
	out = append(out,
		p.symmetry.pick(m.SymmetryScore),
		p.density.pick(m.LineDensity),
		p.complexity.pick(float64(m.Complexity)),
	)
	return append(out, p.closing...)
}

// CanonicalPolicy is the default two-tier symmetry policy: symmetry above
// 0.8, density above 0.15 and complexity above 20 or 10.
func CanonicalPolicy() Policy {
	return Policy{
		Name: "canonical",
		symmetry: ladder{
			rungs: []rung{{0.8, "The Kolam shows high bilateral symmetry, symbolizing balance and harmony."}},
			floor: "The Kolam displays asymmetry, suggesting a creative interpretation.",
		},
		density: ladder{
			rungs: []rung{{0.15, "It features dense linework, indicating intricacy and abundance."}},
			floor: "The design has light linework, reflecting minimalism and simplicity.",
		},
		complexity: ladder{
			rungs: []rung{
				{20, "The pattern is highly complex, with advanced structural planning."},
				{10, "The Kolam shows moderate complexity, balancing detail with clarity."},
			},
			floor: "The Kolam is simple and elegant, focusing on fundamental forms.",
		},
		closing: []string{
			"The dots and connecting lines reflect continuity and unity in Kolam traditions.",
			"The structure indicates repetition and rhythm, symbolizing infinite cycles in nature.",
		},
	}
}

// TieredPolicy adds a moderate symmetry tier and uses tighter cutoffs:
// symmetry 0.85/0.6, density 0.12, complexity 30/12.
func TieredPolicy() Policy {
	return Policy{
		Name: "tiered",
		symmetry: ladder{
			rungs: []rung{
				{0.85, "High bilateral symmetry: strong left-right balance."},
				{0.6, "Moderate symmetry: elements of balance with stylization."},
			},
			floor: "Low symmetry / asymmetrical pattern.",
		},
		density: ladder{
			rungs: []rung{{0.12, "Dense linework indicating intricate patterning."}},
			floor: "Light linework indicating minimal or geometric style.",
		},
		complexity: ladder{
			rungs: []rung{
				{30, "High structural complexity with many contours."},
				{12, "Moderate complexity with clear motifs."},
			},
			floor: "Simple and elegant design.",
		},
		closing: []string{
			"Dots and continuous lines reflect continuity and rhythm.",
		},
	}
}

// PolicyFor selects the tiered policy when tiered is set, else canonical.
func PolicyFor(tiered bool) Policy {
	if tiered {
		return TieredPolicy()
	}
	return CanonicalPolicy()
}
