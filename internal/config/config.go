package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/KaramelBytes/racestats/internal/analysis"
	"github.com/KaramelBytes/racestats/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const dirName = ".racestats"

// Global configuration structure.
type Global struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	FilePrefix string `mapstructure:"file_prefix" yaml:"file_prefix"`
	FileSuffix string `mapstructure:"file_suffix" yaml:"file_suffix"`
	TopN       int    `mapstructure:"top_n" yaml:"top_n"`
	FirstYear  int    `mapstructure:"first_year" yaml:"first_year"`
	LastYear   int    `mapstructure:"last_year" yaml:"last_year"`

	HomeCountry string `mapstructure:"home_country" yaml:"home_country"`
	WomenGender string `mapstructure:"women_gender" yaml:"women_gender"`

	// Tables read by the single-year questions
	MeanTimeYear  int `mapstructure:"mean_time_year" yaml:"mean_time_year"`
	MedianAgeYear int `mapstructure:"median_age_year" yaml:"median_age_year"`
	CountryYear   int `mapstructure:"country_year" yaml:"country_year"`
	WomenYear     int `mapstructure:"women_year" yaml:"women_year"`
	PredictYear   int `mapstructure:"predict_year" yaml:"predict_year"`

	ChartsDir        string `mapstructure:"charts_dir" yaml:"charts_dir"`
	DuplicateHeaders string `mapstructure:"duplicate_headers" yaml:"duplicate_headers"`

	// Source column names
	ColumnTime    string `mapstructure:"column_time" yaml:"column_time"`
	ColumnAge     string `mapstructure:"column_age" yaml:"column_age"`
	ColumnGender  string `mapstructure:"column_gender" yaml:"column_gender"`
	ColumnCountry string `mapstructure:"column_country" yaml:"column_country"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.racestats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := analysis.DefaultOptions()
	s := d.Schema
	v.SetDefault("data_dir", ".")
	v.SetDefault("file_prefix", d.Naming.Prefix)
	v.SetDefault("file_suffix", d.Naming.Suffix)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("first_year", d.FirstYear)
	v.SetDefault("last_year", d.LastYear)
	v.SetDefault("home_country", d.HomeCountry)
	v.SetDefault("women_gender", d.WomenGender)
	v.SetDefault("mean_time_year", d.MeanTimeYear)
	v.SetDefault("median_age_year", d.MedianAgeYear)
	v.SetDefault("country_year", d.CountryYear)
	v.SetDefault("women_year", d.WomenYear)
	v.SetDefault("predict_year", d.PredictYear)
	v.SetDefault("charts_dir", "charts")
	v.SetDefault("duplicate_headers", d.Duplicates.String())
	v.SetDefault("column_time", s.Time)
	v.SetDefault("column_age", s.Age)
	v.SetDefault("column_gender", s.Gender)
	v.SetDefault("column_country", s.Country)
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RACESTATS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Options converts the configuration into pipeline options.
func (c *Global) Options(logger *slog.Logger) (analysis.Options, error) {
	policy, err := dataset.ParseDuplicatePolicy(c.DuplicateHeaders)
	if err != nil {
		return analysis.Options{}, err
	}
	if c.FirstYear > c.LastYear {
		return analysis.Options{}, fmt.Errorf("first_year %d is after last_year %d", c.FirstYear, c.LastYear)
	}
	if c.TopN < 0 {
		return analysis.Options{}, fmt.Errorf("top_n must be >= 0, got %d", c.TopN)
	}
	return analysis.Options{
		Naming:        dataset.Naming{Prefix: c.FilePrefix, Suffix: c.FileSuffix},
		Schema:        dataset.Schema{Time: c.ColumnTime, Age: c.ColumnAge, Gender: c.ColumnGender, Country: c.ColumnCountry},
		Duplicates:    policy,
		TopN:          c.TopN,
		FirstYear:     c.FirstYear,
		LastYear:      c.LastYear,
		HomeCountry:   c.HomeCountry,
		WomenGender:   c.WomenGender,
		MeanTimeYear:  c.MeanTimeYear,
		MedianAgeYear: c.MedianAgeYear,
		CountryYear:   c.CountryYear,
		WomenYear:     c.WomenYear,
		PredictYear:   c.PredictYear,
		Logger:        logger,
	}, nil
}

// fields maps each config key to its string and int setters.
func (c *Global) fields() (strs map[string]*string, ints map[string]*int) {
	strs = map[string]*string{
		"data_dir":          &c.DataDir,
		"file_prefix":       &c.FilePrefix,
		"file_suffix":       &c.FileSuffix,
		"home_country":      &c.HomeCountry,
		"women_gender":      &c.WomenGender,
		"charts_dir":        &c.ChartsDir,
		"duplicate_headers": &c.DuplicateHeaders,
		"column_time":       &c.ColumnTime,
		"column_age":        &c.ColumnAge,
		"column_gender":     &c.ColumnGender,
		"column_country":    &c.ColumnCountry,
	}
	ints = map[string]*int{
		"top_n":           &c.TopN,
		"first_year":      &c.FirstYear,
		"last_year":       &c.LastYear,
		"mean_time_year":  &c.MeanTimeYear,
		"median_age_year": &c.MedianAgeYear,
		"country_year":    &c.CountryYear,
		"women_year":      &c.WomenYear,
		"predict_year":    &c.PredictYear,
	}
	return strs, ints
}

// Set assigns key from its string form.
func (c *Global) Set(key, val string) error {
	strs, ints := c.fields()
	if p, ok := strs[key]; ok {
		if key == "duplicate_headers" {
			policy, err := dataset.ParseDuplicatePolicy(val)
			if err != nil {
				return err
			}
			val = policy.String()
		}
		*p = val
		return nil
	}
	if p, ok := ints[key]; ok {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*p = i
		return nil
	}
	return fmt.Errorf("unknown key: %s", key)
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, bool) {
	strs, ints := c.fields()
	if p, ok := strs[key]; ok {
		return *p, true
	}
	if p, ok := ints[key]; ok {
		return strconv.Itoa(*p), true
	}
	return "", false
}

// Keys returns every config key, sorted.
func Keys() []string {
	strs, ints := (&Global{}).fields()
	keys := make([]string, 0, len(strs)+len(ints))
	for k := range strs {
		keys = append(keys, k)
	}
	for k := range ints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
