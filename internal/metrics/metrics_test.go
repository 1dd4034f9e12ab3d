package metrics

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_PerfectlySeparable(t *testing.T) {
	labels := [][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 0}}
	probs := [][]float32{{0.9, 0.2}, {0.1, 0.8}, {0.7, 0.6}, {0.3, 0.4}}
	preds := labels

	rep, err := Compute(labels, preds, probs)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, rep.Micro.F1, 1e-12)
	assert.InDelta(t, 1.0, rep.Macro.F1, 1e-12)
	assert.InDelta(t, 1.0, rep.MeanF1, 1e-12)
	assert.InDelta(t, 1.0, rep.MeanROCAUC, 1e-12)
	assert.Equal(t, Confusion{TP: 2, FP: 0, TN: 2, FN: 0}, rep.Labels[0].Confusion)
}

func TestCompute_ConfusionAndRates(t *testing.T) {
	labels := [][]float32{{1}, {1}, {1}, {0}, {0}}
	preds := [][]float32{{1}, {1}, {0}, {1}, {0}}
	probs := [][]float32{{0.9}, {0.8}, {0.3}, {0.6}, {0.1}}

	rep, err := Compute(labels, preds, probs)
	require.NoError(t, err)

	l := rep.Labels[0]
	assert.Equal(t, Confusion{TP: 2, FP: 1, TN: 1, FN: 1}, l.Confusion)
	assert.InDelta(t, 2.0/3.0, l.Sensitivity, 1e-12)
	assert.InDelta(t, 0.5, l.Specificity, 1e-12)
	assert.InDelta(t, 2.0/3.0, l.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, l.F1, 1e-12)
	// Positive scores {0.9, 0.8, 0.3} against negatives {0.6, 0.1}: 5 of 6
	// pairs ranked correctly.
	assert.InDelta(t, 5.0/6.0, l.ROCAUC, 1e-12)
}

func TestCompute_MicroMacroDiffer(t *testing.T) {
	labels := [][]float32{{1, 1}, {1, 0}, {0, 1}, {0, 0}}
	preds := [][]float32{{1, 1}, {0, 0}, {0, 1}, {1, 1}}
	probs := [][]float32{{0.9, 0.9}, {0.4, 0.2}, {0.2, 0.8}, {0.6, 0.7}}

	rep, err := Compute(labels, preds, probs)
	require.NoError(t, err)

	// Label 0: TP1 FP1 TN1 FN1. Label 1: TP2 FP1 TN1 FN0.
	assert.InDelta(t, 1.5/(1.5+0.5), rep.Micro.Sensitivity, 1e-12)
	assert.InDelta(t, 1.5/(1.5+1.0), rep.Micro.Precision, 1e-12)
	assert.InDelta(t, (0.5+1.0)/2, rep.Macro.Sensitivity, 1e-12)
	assert.InDelta(t, (0.5+2.0/3.0)/2, rep.Macro.Precision, 1e-12)

	wantMacroF1 := 2 * rep.Macro.Sensitivity * rep.Macro.Precision / (rep.Macro.Sensitivity + rep.Macro.Precision)
	assert.InDelta(t, wantMacroF1, rep.Macro.F1, 1e-12)
	assert.InDelta(t, (rep.Labels[0].F1+rep.Labels[1].F1)/2, rep.MeanF1, 1e-12)
}

func TestCompute_AllZeroColumn(t *testing.T) {
	labels := [][]float32{{0, 1}, {0, 0}, {0, 1}}
	preds := [][]float32{{0, 1}, {0, 0}, {0, 1}}
	probs := [][]float32{{0.1, 0.9}, {0.2, 0.1}, {0.3, 0.8}}

	rep, err := Compute(labels, preds, probs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedROCAUC)
	require.NotNil(t, rep)

	assert.True(t, math.IsNaN(rep.Labels[0].Sensitivity))
	assert.True(t, math.IsNaN(rep.Labels[0].Precision))
	assert.True(t, math.IsNaN(rep.Labels[0].ROCAUC))
	assert.InDelta(t, 1.0, rep.Labels[1].ROCAUC, 1e-12)
}

func TestCompute_ShapeMismatch(t *testing.T) {
	cases := []struct {
		name                 string
		labels, preds, probs [][]float32
	}{
		{"empty", nil, nil, nil},
		{"sample count", [][]float32{{1}, {0}}, [][]float32{{1}}, [][]float32{{1}, {0}}},
		{"label count", [][]float32{{1, 0}}, [][]float32{{1}}, [][]float32{{1, 0}}},
		{"ragged", [][]float32{{1, 0}, {1}}, [][]float32{{1, 0}, {1}}, [][]float32{{1, 0}, {1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.labels, tc.preds, tc.probs)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestReport_PrintFormat(t *testing.T) {
	labels := [][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 0}}
	probs := [][]float32{{0.9, 0.2}, {0.1, 0.8}, {0.7, 0.6}, {0.3, 0.4}}

	rep, err := Compute(labels, labels, probs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.Print(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\t\tTP\tFP\tTN\tFN\n\t\t2\t0\t2\t0\n"))
	assert.Contains(t, out, "Micro averaging:\n\tsensitivity: 1.0000\n\tspecificity: 1.0000\n\tprecision:   1.0000\n\tf1 score:    1.0000\n")
	assert.Contains(t, out, "Macro averaging:\n")
	assert.Contains(t, out, "Weighted averaging with w_k=1:\n\tf1_score:   1.0\n")
	assert.Contains(t, out, "ROC AUC: 1.0\n")
	assert.Contains(t, out, "Classification report:\n              precision    recall  f1-score   support\n\n")
	assert.Contains(t, out, "           0       1.00      1.00      1.00         2\n")
	assert.Contains(t, out, " samples avg       ")
}

func TestReport_PrintIsIdempotent(t *testing.T) {
	labels := [][]float32{{1, 0, 1}, {0, 1, 0}, {1, 1, 0}, {0, 0, 1}}
	preds := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 1, 1}, {1, 0, 1}}
	probs := [][]float32{{0.7, 0.2, 0.4}, {0.3, 0.9, 0.1}, {0.4, 0.6, 0.6}, {0.8, 0.1, 0.7}}

	rep, err := Compute(labels, preds, probs)
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, rep.Print(&first))
	require.NoError(t, rep.Print(&second))
	assert.Equal(t, first.String(), second.String())

	again, err := Compute(labels, preds, probs)
	require.NoError(t, err)
	var third bytes.Buffer
	require.NoError(t, again.Print(&third))
	assert.Equal(t, first.String(), third.String())
}

func TestClassificationReport_ZeroDivisionScoresZero(t *testing.T) {
	labels := [][]float32{{1, 0}, {1, 0}}
	preds := [][]float32{{0, 0}, {0, 0}}

	rep := classificationReport(labels, preds, []Confusion{
		confusion([]float32{1, 1}, []float32{0, 0}),
		confusion([]float32{0, 0}, []float32{0, 0}),
	})
	assert.Equal(t, ClassScores{Support: 2}, rep.Classes[0])
	assert.Equal(t, ClassScores{Support: 0}, rep.Classes[1])
	assert.Equal(t, 2, rep.Weighted.Support)
	assert.Zero(t, rep.Samples.F1)
}

func TestRepr(t *testing.T) {
	assert.Equal(t, "1.0", repr(1))
	assert.Equal(t, "0.75", repr(0.75))
	assert.Equal(t, "nan", repr(math.NaN()))
	assert.Equal(t, "nan", fixed4(math.NaN()))
	assert.Equal(t, "0.6667", fixed4(2.0/3.0))
}
