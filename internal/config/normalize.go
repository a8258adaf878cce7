package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.Ollama.BaseURL = strings.TrimRight(strings.TrimSpace(c.Ollama.BaseURL), "/")
	c.Ollama.Model = strings.TrimSpace(c.Ollama.Model)
	if c.Ollama.TimeoutSeconds <= 0 {
		c.Ollama.TimeoutSeconds = defaultOllamaTimeout
	}
	if c.Ollama.MaxRetries < 0 {
		c.Ollama.MaxRetries = 0
	}
	if c.Ollama.MaxTokens <= 0 {
		c.Ollama.MaxTokens = defaultMaxTokens
	}

	c.Tagging.Mode = strings.ToLower(strings.TrimSpace(c.Tagging.Mode))
	if c.Tagging.Mode == "" {
		c.Tagging.Mode = defaultTaggingMode
	}
	c.Tagging.Language = strings.TrimSpace(c.Tagging.Language)
	if c.Tagging.Language == "" {
		c.Tagging.Language = defaultTagLanguage
	}
	if c.Tagging.MaxTags <= 0 {
		c.Tagging.MaxTags = defaultMaxTags
	}
	c.Tagging.Suffix = strings.TrimSpace(c.Tagging.Suffix)
	mappings := c.Tagging.Mappings[:0]
	for _, mapping := range c.Tagging.Mappings {
		mapping.Criterion = strings.TrimSpace(mapping.Criterion)
		mapping.Tag = strings.TrimSpace(mapping.Tag)
		if mapping.Criterion == "" || mapping.Tag == "" {
			continue
		}
		mappings = append(mappings, mapping)
	}
	c.Tagging.Mappings = mappings

	extensions := c.Processing.Extensions[:0]
	for _, ext := range c.Processing.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	if len(extensions) == 0 {
		extensions = append(extensions, defaultExtensions...)
	}
	c.Processing.Extensions = extensions

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
