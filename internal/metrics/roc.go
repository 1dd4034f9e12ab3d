package metrics

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// rocAUC returns the area under the ROC curve of scores against binary
// labels, and false when the labels hold a single class.
func rocAUC(labels, scores []float32) (float64, bool) {
	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	var positives int
	for i := range scores {
		y[i] = float64(scores[i])
		classes[i] = labels[i] != 0
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(labels) {
		return 0, false
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), true
}
