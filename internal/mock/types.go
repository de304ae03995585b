package mock

import "time"

// Config represents the mock server configuration
type Config struct {
	Port     int       `json:"port" yaml:"port"`         // Server port (default: 5000)
	Host     string    `json:"host" yaml:"host"`         // Server host (default: localhost)
	Fixtures []Fixture `json:"fixtures" yaml:"fixtures"` // Canned analyze responses
	Logging  bool      `json:"logging" yaml:"logging"`   // Keep request logs
}

// Fixture maps analyzed URLs to a canned response
type Fixture struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Match     string `json:"match" yaml:"match"`                             // URL pattern
	MatchType string `json:"matchType,omitempty" yaml:"matchType,omitempty"` // exact, prefix, regex (default: exact)
	Status    int    `json:"status,omitempty" yaml:"status,omitempty"`       // HTTP status (default: 200)
	Delay     int    `json:"delay,omitempty" yaml:"delay,omitempty"`         // Response delay in milliseconds
	Body      string `json:"body,omitempty" yaml:"body,omitempty"`           // JSON or JSONC body; {{url}} is replaced
	BodyFile  string `json:"bodyFile,omitempty" yaml:"bodyFile,omitempty"`   // Path to a body file
}

// RequestLog represents a logged analyze request
type RequestLog struct {
	Timestamp      time.Time     `json:"timestamp"`
	RequestID      string        `json:"requestId"`
	URL            string        `json:"url"`
	MatchedFixture string        `json:"matchedFixture"`
	Status         int           `json:"status"`
	Duration       time.Duration `json:"duration"`
}

// DefaultConfig serves one catch-all fixture so the server works without a file
func DefaultConfig() *Config {
	return &Config{
		Port:    5000,
		Host:    "localhost",
		Logging: true,
		Fixtures: []Fixture{
			{
				Name:      "sample article",
				Match:     ".*",
				MatchType: "regex",
				Body: `{
					// {{url}} is replaced with the analyzed URL
					"url": "{{url}}",
					"raw_content": "# Sample article\n\nServed by pagescope mock.",
					"analysis": {
						"文章标题": "Sample article",
						"作者信息": "pagescope",
						"发布日期": "2025-01-01",
						"来源网站": "localhost",
						"主要话题和关键词": "mock, sample，测试",
						"文章摘要": "A canned analysis returned by the local mock server.",
					},
				}`,
			},
		},
	}
}
