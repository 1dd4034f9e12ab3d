package metrics

// Confusion holds the 2x2 confusion counts of one label, with the negative
// class first and the positive class second.
type Confusion struct {
	TP, FP, TN, FN int
}

// confusion counts one label column. A value is positive when it is non-zero.
func confusion(labels, preds []float32) Confusion {
	var c Confusion
	for i, y := range labels {
		truth, guess := y != 0, preds[i] != 0
		switch {
		case truth && guess:
			c.TP++
		case !truth && guess:
			c.FP++
		case !truth && !guess:
			c.TN++
		default:
			c.FN++
		}
	}
	return c
}

// Rates derived from confusion counts. Zero denominators are not guarded and
// yield NaN or ±Inf.
type Rates struct {
	Sensitivity float64
	Specificity float64
	Precision   float64
	F1          float64
}

func ratesFrom(tp, fp, tn, fn float64) Rates {
	r := Rates{
		Sensitivity: tp / (tp + fn),
		Specificity: tn / (tn + fp),
		Precision:   tp / (tp + fp),
	}
	r.F1 = f1(r.Sensitivity, r.Precision)
	return r
}

func f1(sensitivity, precision float64) float64 {
	return 2 * sensitivity * precision / (sensitivity + precision)
}
