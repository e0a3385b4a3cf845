package schema

// columnDoc is the YAML layout of one column
type columnDoc struct {
	Name        string          `yaml:"name"`
	Type        string          `yaml:"type"`
	Config      configDoc       `yaml:"config"`
	Degradation *degradationDoc `yaml:"degradation"`
	Target      *targetDoc      `yaml:"target"`
}

type configDoc struct {
	Min             *float64        `yaml:"min"`
	Max             *float64        `yaml:"max"`
	Precision       *int            `yaml:"precision"`
	Categories      []interface{}   `yaml:"categories"`
	StartDate       string          `yaml:"start_date"`
	EndDate         string          `yaml:"end_date"`
	TextType        string          `yaml:"text_type"`
	ReferenceFile   string          `yaml:"reference_file"`
	ReferenceSource string          `yaml:"reference_source"`
	ReferenceColumn string          `yaml:"reference_column"`
	QualityConfig   *degradationDoc `yaml:"quality_config"`
	TargetConfig    *targetDoc      `yaml:"target_config"`
}

type degradationDoc struct {
	NullRate          float64 `yaml:"null_rate"`
	DuplicateRate     float64 `yaml:"duplicate_rate"`
	SimilarRate       float64 `yaml:"similar_rate"`
	OutlierRate       float64 `yaml:"outlier_rate"`
	InvalidFormatRate float64 `yaml:"invalid_format_rate"`
}

type targetDoc struct {
	Mode               string             `yaml:"mode"`
	Rules              []ruleDoc          `yaml:"rules"`
	DefaultProbability *float64           `yaml:"default_probability"`
	BaseProbability    *float64           `yaml:"base_probability"`
	FeatureWeights     map[string]float64 `yaml:"feature_weights"`
	MinProbability     *float64           `yaml:"min_probability"`
	MaxProbability     *float64           `yaml:"max_probability"`
}

type ruleDoc struct {
	Conditions  []conditionDoc `yaml:"conditions"`
	Probability *float64       `yaml:"probability"`
}

type conditionDoc struct {
	Feature  string      `yaml:"feature"`
	Operator string      `yaml:"operator"`
	Value    interface{} `yaml:"value"`
}
