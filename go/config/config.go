package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

const envPrefix = "QB"

type Config struct {
	Elasticsearch *ElasticsearchConfig `mapstructure:"elasticsearch"`
	Highlight     *HighlightConfig     `mapstructure:"highlight"`
	Pagination    *PaginationConfig    `mapstructure:"pagination"`
}

type ElasticsearchConfig struct {
	URI   string `mapstructure:"uri"`
	Index string `mapstructure:"index"`
}

// SearchURL is the _search endpoint of the configured index, or of all indices when no index is set
func (c *ElasticsearchConfig) SearchURL() (string, error) {
	u, err := url.ParseRequestURI(c.URI)
	if err != nil {
		return "", err
	}

	segments := []string{strings.TrimSuffix(u.Path, "/")}
	if c.Index != "" {
		segments = append(segments, c.Index)
	}
	u.Path = strings.Join(append(segments, "_search"), "/")

	return u.String(), nil
}

// HighlightConfig holds the tags wrapped around highlighted fragments
type HighlightConfig struct {
	PreTags  []string `mapstructure:"preTags"`
	PostTags []string `mapstructure:"postTags"`
}

type PaginationConfig struct {
	// OmitZero drops from/size when they are zero, as if they had not been provided
	OmitZero bool `mapstructure:"omitZero"`
	// MaxSize caps the requested page size, 0 disables the cap
	MaxSize int `mapstructure:"maxSize"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("elasticsearch.uri", "")
	v.SetDefault("elasticsearch.index", "")
	v.SetDefault("highlight.preTags", []string{"<em>"})
	v.SetDefault("highlight.postTags", []string{"</em>"})
	v.SetDefault("pagination.omitZero", false)
	v.SetDefault("pagination.maxSize", 0)
}

// Load reads the YAML file at path, when given, and applies QB_ prefixed environment overrides
// (QB_ELASTICSEARCH_INDEX, QB_PAGINATION_MAXSIZE, ...)
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %s", path, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %s", err)
	}

	if err := c.IsValid(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) IsValid() error {
	var result error

	if c.Elasticsearch != nil && c.Elasticsearch.URI != "" {
		if _, err := c.Elasticsearch.SearchURL(); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid elasticsearch uri %q: %s", c.Elasticsearch.URI, err))
		}
	}

	if c.Highlight != nil && len(c.Highlight.PreTags) != len(c.Highlight.PostTags) {
		result = multierror.Append(result, fmt.Errorf("highlight needs as many post tags as pre tags, got %d and %d", len(c.Highlight.PreTags), len(c.Highlight.PostTags)))
	}

	if c.Pagination != nil && c.Pagination.MaxSize < 0 {
		result = multierror.Append(result, fmt.Errorf("pagination max size must not be negative, got %d", c.Pagination.MaxSize))
	}

	return result
}
