package sharecard

// ProgressBucket quantizes a funding ratio into a multiple of 10 between 0
// and 100. The card's progress bar rounds down to the nearest 10%, so two
// contributions inside the same bucket produce the same cache key and the
// same rendered pixels. Lossy on purpose: display precision is traded for
// cache stability.
//
// Total over its numeric domain: a non-positive target returns 0 rather than
// dividing by zero, negative progress clamps to 0, over-funded clamps to 100.
func ProgressBucket(current, target int64) int {
	if target <= 0 || current <= 0 {
		return 0
	}

	bucket := int(current * 100 / target / 10 * 10)
	if bucket > 100 {
		return 100
	}
	return bucket
}
