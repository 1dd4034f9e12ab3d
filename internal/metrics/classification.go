package metrics

import (
	"fmt"
	"io"
	"strconv"
)

// ClassScores is one row of a classification report.
type ClassScores struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport holds per-label scores and the four multi-label
// averages. Zero denominators score 0.
type ClassificationReport struct {
	Classes  []ClassScores
	Micro    ClassScores
	Macro    ClassScores
	Weighted ClassScores
	Samples  ClassScores
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func scoresFrom(tp, fp, fn float64, support int) ClassScores {
	p := safeDiv(tp, tp+fp)
	r := safeDiv(tp, tp+fn)
	return ClassScores{Precision: p, Recall: r, F1: safeDiv(2*p*r, p+r), Support: support}
}

func classificationReport(labels, preds [][]float32, counts []Confusion) ClassificationReport {
	var rep ClassificationReport
	var tp, fp, fn float64
	var total int
	for _, c := range counts {
		support := c.TP + c.FN
		rep.Classes = append(rep.Classes, scoresFrom(float64(c.TP), float64(c.FP), float64(c.FN), support))
		tp += float64(c.TP)
		fp += float64(c.FP)
		fn += float64(c.FN)
		total += support
	}
	rep.Micro = scoresFrom(tp, fp, fn, total)

	n := float64(len(rep.Classes))
	rep.Macro.Support, rep.Weighted.Support, rep.Samples.Support = total, total, total
	for _, s := range rep.Classes {
		rep.Macro.Precision += s.Precision / n
		rep.Macro.Recall += s.Recall / n
		rep.Macro.F1 += s.F1 / n

		w := safeDiv(float64(s.Support), float64(total))
		rep.Weighted.Precision += w * s.Precision
		rep.Weighted.Recall += w * s.Recall
		rep.Weighted.F1 += w * s.F1
	}

	for i := range labels {
		var stp, sfp, sfn float64
		for k, y := range labels[i] {
			truth, guess := y != 0, preds[i][k] != 0
			switch {
			case truth && guess:
				stp++
			case guess:
				sfp++
			case truth:
				sfn++
			}
		}
		s := scoresFrom(stp, sfp, sfn, 0)
		m := float64(len(labels))
		rep.Samples.Precision += s.Precision / m
		rep.Samples.Recall += s.Recall / m
		rep.Samples.F1 += s.F1 / m
	}
	return rep
}

const reportWidth = len("weighted avg")

// Write renders the report in the familiar tabular text layout.
func (c ClassificationReport) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%*s  %9s %9s %9s %9s\n\n", reportWidth, "", "precision", "recall", "f1-score", "support"); err != nil {
		return err
	}
	for i, s := range c.Classes {
		if err := writeRow(w, strconv.Itoa(i), s); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	rows := []struct {
		name   string
		scores ClassScores
	}{
		{"micro avg", c.Micro},
		{"macro avg", c.Macro},
		{"weighted avg", c.Weighted},
		{"samples avg", c.Samples},
	}
	for _, r := range rows {
		if err := writeRow(w, r.name, r.scores); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, name string, s ClassScores) error {
	_, err := fmt.Fprintf(w, "%*s  %9.2f %9.2f %9.2f %9d\n", reportWidth, name, s.Precision, s.Recall, s.F1, s.Support)
	return err
}
