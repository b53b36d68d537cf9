package linage

// Distinct collapses structurally equal operations, keeping the first occurrence and input order.
// Operations that share a name but differ in content are all kept; nil operations are skipped.
func Distinct(ops []Operation) ([]Operation, error) {
	buckets := make(map[uint64][]Operation, len(ops))
	result := make([]Operation, 0, len(ops))
outer:
	for _, op := range ops {
		if IsNil(op) {
			continue
		}
		k, err := Key(op)
		if err != nil {
			return nil, err
		}
		for _, candidate := range buckets[k] {
			if Equal(candidate, op) {
				continue outer
			}
		}
		buckets[k] = append(buckets[k], op)
		result = append(result, op)
	}
	return result, nil
}

// Merge concatenates operation collections (i.e. emitted by several stages of one run)
// and removes structural duplicates; the first occurrence is preserved.
func Merge(collections ...[]Operation) ([]Operation, error) {
	var all []Operation
	for _, ops := range collections {
		all = append(all, ops...)
	}
	return Distinct(all)
}
