// Package metrics scores multi-label predictions: per-label confusion counts,
// micro and macro averages, ROC-AUC and a classification report.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrShapeMismatch is returned when labels, predictions and
	// probabilities disagree in sample or label count.
	ErrShapeMismatch = errors.New("metrics: shape mismatch")

	// ErrUndefinedROCAUC is returned when a label column holds one class only.
	ErrUndefinedROCAUC = errors.New("metrics: ROC AUC undefined for a single-class label")
)

// LabelMetrics are the scores of one label.
type LabelMetrics struct {
	Confusion
	Rates
	ROCAUC float64
}

// Report is the full evaluation of one pass over a dataset.
type Report struct {
	Labels []LabelMetrics

	Micro Rates
	Macro Rates

	// MeanF1 is the unweighted mean of per-label F1. It is printed under
	// the heading "Weighted averaging with w_k=1", which is a misnomer kept
	// for output compatibility.
	MeanF1 float64

	MeanROCAUC float64

	Classification ClassificationReport
}

// Compute scores binary predictions and probabilities against binary labels.
// All three matrices are [samples][labels].
//
// Zero denominators are not guarded. When a label column holds a single
// class, the report is still returned fully populated, with NaN for that
// label's ROC-AUC, together with an error wrapping ErrUndefinedROCAUC.
func Compute(labels, preds, probs [][]float32) (*Report, error) {
	if err := checkShapes(labels, preds, probs); err != nil {
		return nil, err
	}
	numLabels := len(labels[0])

	rep := &Report{Labels: make([]LabelMetrics, numLabels)}
	counts := make([]Confusion, numLabels)
	// Per-label columns for the averages.
	tp, fp, tn, fn := columns(numLabels), columns(numLabels), columns(numLabels), columns(numLabels)
	sens, spec, prec := columns(numLabels), columns(numLabels), columns(numLabels)
	f1s, aucs := columns(numLabels), columns(numLabels)
	var undefined []int

	yCol := make([]float32, len(labels))
	pCol := make([]float32, len(labels))
	scores := make([]float32, len(labels))

	for k := 0; k < numLabels; k++ {
		for i := range labels {
			yCol[i], pCol[i], scores[i] = labels[i][k], preds[i][k], probs[i][k]
		}
		c := confusion(yCol, pCol)
		counts[k] = c
		r := ratesFrom(float64(c.TP), float64(c.FP), float64(c.TN), float64(c.FN))

		auc, ok := rocAUC(yCol, scores)
		if !ok {
			auc = math.NaN()
			undefined = append(undefined, k)
		}
		rep.Labels[k] = LabelMetrics{Confusion: c, Rates: r, ROCAUC: auc}

		tp[k], fp[k], tn[k], fn[k] = float64(c.TP), float64(c.FP), float64(c.TN), float64(c.FN)
		sens[k], spec[k], prec[k], f1s[k], aucs[k] = r.Sensitivity, r.Specificity, r.Precision, r.F1, auc
	}

	rep.Micro = ratesFrom(mean(tp), mean(fp), mean(tn), mean(fn))
	rep.Macro = Rates{Sensitivity: mean(sens), Specificity: mean(spec), Precision: mean(prec)}
	rep.Macro.F1 = f1(rep.Macro.Sensitivity, rep.Macro.Precision)
	rep.MeanF1 = mean(f1s)
	rep.MeanROCAUC = mean(aucs)
	rep.Classification = classificationReport(labels, preds, counts)

	if len(undefined) > 0 {
		return rep, fmt.Errorf("%w: label %d has only one class present", ErrUndefinedROCAUC, undefined[0])
	}
	return rep, nil
}

func checkShapes(labels, preds, probs [][]float32) error {
	if len(labels) == 0 {
		return fmt.Errorf("%w: no samples", ErrShapeMismatch)
	}
	if len(preds) != len(labels) || len(probs) != len(labels) {
		return fmt.Errorf("%w: %d labels, %d predictions, %d probabilities",
			ErrShapeMismatch, len(labels), len(preds), len(probs))
	}
	width := len(labels[0])
	if width == 0 {
		return fmt.Errorf("%w: no labels", ErrShapeMismatch)
	}
	for i := range labels {
		if len(labels[i]) != width || len(preds[i]) != width || len(probs[i]) != width {
			return fmt.Errorf("%w: sample %d has %d/%d/%d labels, want %d",
				ErrShapeMismatch, i, len(labels[i]), len(preds[i]), len(probs[i]), width)
		}
	}
	return nil
}

func columns(n int) []float64 {
	return make([]float64, n)
}

func mean(x []float64) float64 {
	return floats.Sum(x) / float64(len(x))
}

// Print writes the report as text.
func (r *Report) Print(w io.Writer) error {
	var b strings.Builder
	for _, l := range r.Labels {
		b.WriteString("\t\tTP\tFP\tTN\tFN\n")
		fmt.Fprintf(&b, "\t\t%d\t%d\t%d\t%d\n", l.TP, l.FP, l.TN, l.FN)
	}
	writeRates(&b, "Micro averaging:", r.Micro)
	writeRates(&b, "Macro averaging:", r.Macro)
	fmt.Fprintf(&b, "Weighted averaging with w_k=1:\n\tf1_score:   %s\n", repr(r.MeanF1))
	fmt.Fprintf(&b, "ROC AUC: %s\n", repr(r.MeanROCAUC))
	b.WriteString("Classification report:\n")
	if err := r.Classification.Write(&b); err != nil {
		return err
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRates(b *strings.Builder, title string, r Rates) {
	fmt.Fprintf(b, "%s\n\tsensitivity: %s\n\tspecificity: %s\n\tprecision:   %s\n\tf1 score:    %s\n",
		title, fixed4(r.Sensitivity), fixed4(r.Specificity), fixed4(r.Precision), fixed4(r.F1))
}

func fixed4(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// repr formats v as the shortest round-tripping decimal, always with a
// fractional part or exponent.
func repr(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "nan", true
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	}
	return "", false
}
