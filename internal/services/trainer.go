package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// TrainerService fits the resume category model from a labeled CSV dataset and
// persists the resulting artifacts. Any dataset problem is returned as a
// *DatasetError and nothing is written.
type TrainerService interface {
	Train(csvPath string) (*TrainingReport, error)
}

type TrainerConfig struct {
	MaxFeatures    int
	MaxIterations  int
	TestSplit      float64
	Seed           int64
	VectorizerPath string
	ClassifierPath string
}

// TrainingReport summarizes the held-out evaluation of a training run.
type TrainingReport struct {
	Rows      int
	TrainRows int
	TestRows  int
	Classes   []string
	Accuracy  float64
	PerClass  map[string]ClassMetrics
}

type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type trainerService struct {
	normalizer TextNormalizer
	config     TrainerConfig
}

func NewTrainerService(normalizer TextNormalizer, config TrainerConfig) TrainerService {
	if config.TestSplit <= 0 || config.TestSplit >= 1 {
		config.TestSplit = 0.2
	}
	return &trainerService{
		normalizer: normalizer,
		config:     config,
	}
}

// Train implements TrainerService.
func (t *trainerService) Train(csvPath string) (*TrainingReport, error) {
	texts, labels, err := t.loadDataset(csvPath)
	if err != nil {
		return nil, err
	}

	// The exact normalization used at inference time.
	corpus := make([]string, len(texts))
	for i, text := range texts {
		corpus[i] = t.normalizer.Normalize(text)
	}

	vectorizer := NewVectorizer(t.config.MaxFeatures)
	fitted := vectorizer.Fit(corpus)

	features := make([][]float64, len(corpus))
	for i, doc := range corpus {
		features[i] = fitted.Transform(doc)
	}

	trainIdx, testIdx := t.split(len(features))

	trainFeatures := make([][]float64, 0, len(trainIdx))
	trainLabels := make([]string, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainFeatures = append(trainFeatures, features[i])
		trainLabels = append(trainLabels, labels[i])
	}

	classifier, err := NewClassifier(t.config.MaxIterations).Fit(trainFeatures, trainLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	report := t.evaluate(classifier, features, labels, testIdx)
	report.Rows = len(texts)
	report.TrainRows = len(trainIdx)
	report.TestRows = len(testIdx)
	report.Classes = classifier.Classes

	if err := SaveArtifacts(fitted, classifier, t.config.VectorizerPath, t.config.ClassifierPath); err != nil {
		return nil, err
	}

	return report, nil
}

// loadDataset reads the CSV and resolves the resume_text and label columns by
// header name.
func (t *trainerService) loadDataset(csvPath string) ([]string, []string, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, &DatasetError{Path: csvPath, Reason: "cannot open dataset", Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, &DatasetError{Path: csvPath, Reason: "cannot read header", Err: err}
	}

	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "resume_text":
			textCol = i
		case "label":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, nil, &DatasetError{
			Path:   csvPath,
			Reason: "missing required columns resume_text and label",
		}
	}

	var texts, labels []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &DatasetError{Path: csvPath, Reason: "malformed row", Err: err}
		}
		if textCol >= len(record) || labelCol >= len(record) {
			return nil, nil, &DatasetError{Path: csvPath, Reason: "row is missing columns"}
		}

		texts = append(texts, record[textCol])
		labels = append(labels, strings.TrimSpace(record[labelCol]))
	}

	if len(texts) == 0 {
		return nil, nil, &DatasetError{Path: csvPath, Reason: "dataset has no rows"}
	}

	return texts, labels, nil
}

// split shuffles row indices with a fixed seed and carves off the held-out
// test fraction, so runs are reproducible.
func (t *trainerService) split(n int) (train, test []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(t.config.Seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testSize := int(float64(n) * t.config.TestSplit)
	if testSize >= n {
		testSize = n - 1
	}

	return indices[testSize:], indices[:testSize]
}

func (t *trainerService) evaluate(clf *FittedClassifier, features [][]float64, labels []string, testIdx []int) *TrainingReport {
	report := &TrainingReport{
		PerClass: make(map[string]ClassMetrics),
	}

	// With a dataset too small to hold anything out, evaluate on the
	// training rows rather than report nothing.
	evalIdx := testIdx
	if len(evalIdx) == 0 {
		evalIdx = make([]int, len(features))
		for i := range evalIdx {
			evalIdx[i] = i
		}
	}

	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)
	support := make(map[string]int)

	correct := 0
	for _, i := range evalIdx {
		predicted := clf.Predict(features[i])
		actual := labels[i]
		support[actual]++

		if predicted == actual {
			correct++
			truePos[actual]++
		} else {
			falsePos[predicted]++
			falseNeg[actual]++
		}
	}

	report.Accuracy = float64(correct) / float64(len(evalIdx))

	for _, class := range clf.Classes {
		tp := float64(truePos[class])
		fp := float64(falsePos[class])
		fn := float64(falseNeg[class])

		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report.PerClass[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[class],
		}
	}

	return report
}
