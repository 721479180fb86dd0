package stats

// SmoothElevations applies a centered moving average to a series of elevation samples.
//
// Index i is replaced by the mean of [i-half, i+half] only when the whole window fits
// inside the series and every sample in it is present. Samples within half of either end
// are never changed. A series shorter than the window, or a window below 2, comes back as
// an unchanged copy. The input is never modified.
func SmoothElevations(elevations []*float64, window int) []*float64 {
	smoothed := make([]*float64, len(elevations))
	copy(smoothed, elevations)

	if window < 2 || len(elevations) < window {
		return smoothed
	}

	half := window / 2
	buf := make([]float64, 0, 2*half+1)

	for i := half; i < len(elevations)-half; i++ {
		buf = buf[:0]
		for _, v := range elevations[i-half : i+half+1] {
			if v == nil {
				break
			}
			buf = append(buf, *v)
		}
		// Even windows never fill exactly and leave the series untouched.
		if len(buf) != window {
			continue
		}
		mean := Mean(buf)
		smoothed[i] = &mean
	}

	return smoothed
}
