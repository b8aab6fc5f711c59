package services

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Classifier trains a multinomial logistic regression model with full-batch
// gradient descent. Weights start at zero and the learning rate is fixed, so
// training is deterministic for a given dataset.
type Classifier struct {
	learningRate float64
	maxIter      int
}

func NewClassifier(maxIter int) *Classifier {
	if maxIter <= 0 {
		maxIter = 1000
	}
	return &Classifier{
		learningRate: 0.1,
		maxIter:      maxIter,
	}
}

// Fit trains on a feature matrix and its labels. The class set is whatever
// appears in labels, ordered alphabetically.
func (c *Classifier) Fit(features [][]float64, labels []string) (*FittedClassifier, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("cannot fit classifier on empty feature matrix")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("feature/label length mismatch: %d vs %d", len(features), len(labels))
	}

	classSet := make(map[string]bool)
	for _, label := range labels {
		classSet[label] = true
	}
	classes := make([]string, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	classIndex := make(map[string]int, len(classes))
	for i, class := range classes {
		classIndex[class] = i
	}

	nSamples := len(features)
	nFeatures := len(features[0])
	nClasses := len(classes)

	// Design matrix with a trailing bias column.
	x := mat.NewDense(nSamples, nFeatures+1, nil)
	for i, row := range features {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("inconsistent feature vector length at row %d", i)
		}
		for j, val := range row {
			x.Set(i, j, val)
		}
		x.Set(i, nFeatures, 1)
	}

	// One-hot targets.
	y := mat.NewDense(nSamples, nClasses, nil)
	for i, label := range labels {
		y.Set(i, classIndex[label], 1)
	}

	weights := mat.NewDense(nFeatures+1, nClasses, nil)
	var logits, probs, diff, grad mat.Dense

	for iter := 0; iter < c.maxIter; iter++ {
		logits.Mul(x, weights)
		softmaxRows(&probs, &logits)

		diff.Sub(&probs, y)
		grad.Mul(x.T(), &diff)
		grad.Scale(c.learningRate/float64(nSamples), &grad)

		weights.Sub(weights, &grad)
	}

	fitted := &FittedClassifier{
		Classes: classes,
		Weights: make([][]float64, nFeatures+1),
	}
	for i := 0; i <= nFeatures; i++ {
		fitted.Weights[i] = make([]float64, nClasses)
		for j := 0; j < nClasses; j++ {
			fitted.Weights[i][j] = weights.At(i, j)
		}
	}

	return fitted, nil
}

// softmaxRows writes the row-wise softmax of src into dst, shifting by the row
// maximum to keep the exponentials finite.
func softmaxRows(dst, src *mat.Dense) {
	rows, cols := src.Dims()
	dst.Reset()
	dst.ReuseAs(rows, cols)

	for i := 0; i < rows; i++ {
		rowMax := math.Inf(-1)
		for j := 0; j < cols; j++ {
			if v := src.At(i, j); v > rowMax {
				rowMax = v
			}
		}

		var sum float64
		for j := 0; j < cols; j++ {
			e := math.Exp(src.At(i, j) - rowMax)
			dst.Set(i, j, e)
			sum += e
		}
		for j := 0; j < cols; j++ {
			dst.Set(i, j, dst.At(i, j)/sum)
		}
	}
}

// FittedClassifier is an immutable trained model. Weights has one row per
// feature plus a bias row; exported fields exist for gob serialization only.
type FittedClassifier struct {
	Classes []string
	Weights [][]float64
}

// Predict maps a feature vector to exactly one label. An all-zero vector still
// resolves to a label through the bias row; ties go to the first class in
// alphabetical order.
func (f *FittedClassifier) Predict(vec []float64) string {
	best := 0
	bestScore := math.Inf(-1)

	for j := range f.Classes {
		score := f.Weights[len(f.Weights)-1][j]
		for i, val := range vec {
			if i >= len(f.Weights)-1 {
				break
			}
			score += f.Weights[i][j] * val
		}
		if score > bestScore {
			bestScore = score
			best = j
		}
	}

	return f.Classes[best]
}
