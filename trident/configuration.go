package trident

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

type Configuration struct {
	DataPath string `yaml:"dataPath"`
	PlotPath string `yaml:"plotPath"`
	FontPath string `yaml:"fontPath"`
	FontName string `yaml:"fontName"`
}

type ExperimentConfiguration struct {
	CsvFile string `yaml:"csvFile"`
	Models []string `yaml:"models"`
	TimeSteps int `yaml:"timeSteps"`
	FutureSteps int `yaml:"futureSteps"`
	TrainRatio float64 `yaml:"trainRatio"`
	ValidationRatio float64 `yaml:"validationRatio"`
	Units int `yaml:"units"`
	Dropout float64 `yaml:"dropout"`
	LearningRate float64 `yaml:"learningRate"`
	Epochs int `yaml:"epochs"`
	BatchSize int `yaml:"batchSize"`
	Patience int `yaml:"patience"`
	Seed int64 `yaml:"seed"`
}

const configurationPath = "configuration/configuration.yaml"

const defaultValidationRatio = 0.1

var configuration *Configuration

func loadConfiguration() {
	if configuration != nil {
		return
	}
	yamlData := readFile(configurationPath)
	configuration = new(Configuration)
	err := yaml.Unmarshal(yamlData, configuration)
	if err != nil {
		log.Fatal("Failed to unmarshal YAML:", err)
	}
	if configuration.DataPath == "" || configuration.PlotPath == "" {
		log.Fatalf("Both dataPath and plotPath must be set in %s", configurationPath)
	}
}

func loadExperimentConfiguration(yamlPath string) ExperimentConfiguration {
	yamlData := readFile(yamlPath)
	experiment := ExperimentConfiguration{}
	err := yaml.Unmarshal(yamlData, &experiment)
	if err != nil {
		log.Fatal("Failed to unmarshal YAML:", err)
	}
	if experiment.Models == nil {
		for _, architecture := range allArchitectures {
			experiment.Models = append(experiment.Models, string(architecture))
		}
	}
	if experiment.ValidationRatio == 0.0 {
		experiment.ValidationRatio = defaultValidationRatio
	}
	err = experiment.validate()
	if err != nil {
		log.Fatalf("Invalid experiment configuration (%s): %v", yamlPath, err)
	}
	return experiment
}

func (e *ExperimentConfiguration) validate() error {
	errors := []string{}
	if e.CsvFile == "" {
		errors = append(errors, "csvFile must be set")
	}
	if len(e.Models) == 0 {
		errors = append(errors, "models must not be empty")
	}
	if e.TimeSteps < 1 {
		errors = append(errors, "timeSteps must be positive")
	}
	if e.FutureSteps < 1 {
		errors = append(errors, "futureSteps must be positive")
	}
	if e.TrainRatio <= 0.0 || e.TrainRatio >= 1.0 {
		errors = append(errors, "trainRatio must be in (0, 1)")
	}
	if e.ValidationRatio <= 0.0 || e.ValidationRatio >= 1.0 {
		errors = append(errors, "validationRatio must be in (0, 1)")
	}
	if e.Units < 1 {
		errors = append(errors, "units must be positive")
	}
	if e.Dropout < 0.0 || e.Dropout >= 1.0 {
		errors = append(errors, "dropout must be in [0, 1)")
	}
	if e.LearningRate <= 0.0 {
		errors = append(errors, "learningRate must be positive")
	}
	if e.Epochs < 1 {
		errors = append(errors, "epochs must be positive")
	}
	if e.BatchSize < 1 {
		errors = append(errors, "batchSize must be positive")
	}
	if e.Patience < 1 {
		errors = append(errors, "patience must be positive")
	}
	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
