package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30
	}
	if cfg.Server.MaxConcurrent == 0 {
		cfg.Server.MaxConcurrent = 64
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "json"
	}
	if cfg.Catalog.DatabasePath == "" {
		cfg.Catalog.DatabasePath = "/usr/local/var/aqari/data/db/catalog.db"
	}
	if len(cfg.Catalog.Locales) == 0 {
		cfg.Catalog.Locales = []LocaleSource{
			{Locale: "ar", Path: "./data/properties_ar.json", VectorPath: "./data/vectors_ar.bin"},
			{Locale: "en", Path: "./data/properties_en.json", VectorPath: "./data/vectors_en.bin"},
		}
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "mock"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.TokenEnv == "" {
		cfg.Embedding.TokenEnv = "AQARI_EMBEDDING_TOKEN"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = 256
	}
	if cfg.Search.CacheTTLSeconds == 0 {
		cfg.Search.CacheTTLSeconds = 300
	}
}
