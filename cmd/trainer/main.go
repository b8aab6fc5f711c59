package main

import (
	"flag"
	"log"

	"resumeworks/resume-screener/internal/config"
	"resumeworks/resume-screener/internal/services"
)

func main() {
	csvPath := flag.String("csv", "data/resumes.csv", "labeled dataset with resume_text and label columns")
	flag.Parse()

	cfg := config.Load()

	normalizer, err := services.NewTextNormalizer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize text normalizer: %v", err)
	}

	trainer := services.NewTrainerService(normalizer, services.TrainerConfig{
		MaxFeatures:    cfg.Model.MaxFeatures,
		MaxIterations:  cfg.Model.MaxIterations,
		TestSplit:      cfg.Model.TestSplit,
		Seed:           cfg.Model.Seed,
		VectorizerPath: cfg.Model.VectorizerPath,
		ClassifierPath: cfg.Model.ClassifierPath,
	})

	log.Printf("🚀 Training on %s\n", *csvPath)
	report, err := trainer.Train(*csvPath)
	if err != nil {
		log.Fatalf("❌ Training failed: %v", err)
	}

	log.Printf("✅ Trained on %d rows (%d train / %d test), %d classes\n",
		report.Rows, report.TrainRows, report.TestRows, len(report.Classes))
	log.Printf("📊 Accuracy: %.4f\n", report.Accuracy)
	for _, class := range report.Classes {
		m := report.PerClass[class]
		log.Printf("   %-30s precision=%.3f recall=%.3f f1=%.3f support=%d\n",
			class, m.Precision, m.Recall, m.F1, m.Support)
	}
	log.Printf("💾 Artifacts written to %s and %s\n", cfg.Model.VectorizerPath, cfg.Model.ClassifierPath)
}
