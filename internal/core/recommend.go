package core

// Recommend maps a set of detected tags to an ordered list of actionable
// steps. Tags are walked in canonical vocabulary order, not detection order,
// so the output is stable for any phrasing of the same topics. A step shared
// by two tags appears once. An empty tag set yields no recommendations; that
// is a normal result, not an error.
func Recommend(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}

	var steps []string
	seen := make(map[string]struct{})
	for _, tag := range tagVocabulary {
		if _, ok := wanted[tag.Name]; !ok {
			continue
		}
		for _, step := range recommendationTable[tag.Name] {
			if _, dup := seen[step]; dup {
				continue
			}
			seen[step] = struct{}{}
			steps = append(steps, step)
		}
	}
	return steps
}

// StepsForTag returns the static recommendations behind one tag, so callers
// can trace a step back to the topic that produced it.
func StepsForTag(tag string) []string {
	steps := recommendationTable[tag]
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}
