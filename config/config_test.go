package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("MEDCOMPARE_SERVER_PORT")
		os.Unsetenv("MEDCOMPARE_SERVER_ENVIRONMENT")
		os.Unsetenv("MEDCOMPARE_READER_BASE_URL")
		os.Unsetenv("MEDCOMPARE_READER_TIMEOUT")
		os.Unsetenv("MEDCOMPARE_COMPARE_MIN_SCORE")
		os.Unsetenv("MEDCOMPARE_COMPARE_MIN_PRICE")
		os.Unsetenv("MEDCOMPARE_COMPARE_MAX_PRICE")
		os.Unsetenv("MEDCOMPARE_COMPARE_DOSAGE_BONUS")
		os.Unsetenv("MEDCOMPARE_COMPARE_SOURCE_TIMEOUT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Reader.BaseURL != "https://r.jina.ai/http://" {
			t.Errorf("Reader.BaseURL = %s, want https://r.jina.ai/http://", cfg.Reader.BaseURL)
		}
		if cfg.Reader.Timeout != 20*time.Second {
			t.Errorf("Reader.Timeout = %v, want 20s", cfg.Reader.Timeout)
		}
		if cfg.Compare.MinScore != 0.25 {
			t.Errorf("Compare.MinScore = %v, want 0.25", cfg.Compare.MinScore)
		}
		if cfg.Compare.MinPrice != 1.0 {
			t.Errorf("Compare.MinPrice = %v, want 1", cfg.Compare.MinPrice)
		}
		if cfg.Compare.MaxPrice != 50000.0 {
			t.Errorf("Compare.MaxPrice = %v, want 50000", cfg.Compare.MaxPrice)
		}
		if cfg.Compare.DosageBonus != 0.02 {
			t.Errorf("Compare.DosageBonus = %v, want 0.02", cfg.Compare.DosageBonus)
		}
		if cfg.Compare.SourceTimeout != 6*time.Second {
			t.Errorf("Compare.SourceTimeout = %v, want 6s", cfg.Compare.SourceTimeout)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MEDCOMPARE_SERVER_PORT", "9090")
		os.Setenv("MEDCOMPARE_SERVER_ENVIRONMENT", "production")
		os.Setenv("MEDCOMPARE_READER_BASE_URL", "https://reader.example.com/")
		os.Setenv("MEDCOMPARE_COMPARE_MIN_SCORE", "0.4")
		os.Setenv("MEDCOMPARE_COMPARE_SOURCE_TIMEOUT", "3s")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Reader.BaseURL != "https://reader.example.com/" {
			t.Errorf("Reader.BaseURL = %s, want https://reader.example.com/", cfg.Reader.BaseURL)
		}
		if cfg.Compare.MinScore != 0.4 {
			t.Errorf("Compare.MinScore = %v, want 0.4", cfg.Compare.MinScore)
		}
		if cfg.Compare.SourceTimeout != 3*time.Second {
			t.Errorf("Compare.SourceTimeout = %v, want 3s", cfg.Compare.SourceTimeout)
		}
	})

	t.Run("fails when min_score is out of range", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MEDCOMPARE_COMPARE_MIN_SCORE", "1.5")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want validation error")
		}
	})

	t.Run("fails when price bounds are inverted", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MEDCOMPARE_COMPARE_MIN_PRICE", "60000")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want validation error")
		}
	})

	t.Run("fails when reader base URL is cleared", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MEDCOMPARE_READER_BASE_URL", "")
		defer cleanupEnv()

		cfg, err := Load()
		// An empty env var falls back to the default with viper, so this
		// must either load the default or fail validation - never return
		// an empty base URL.
		if err == nil && cfg.Reader.BaseURL == "" {
			t.Fatal("Load() accepted an empty reader base URL")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Reader: ReaderConfig{BaseURL: "https://r.jina.ai/http://"},
			Compare: CompareConfig{
				MinScore:      0.25,
				MinPrice:      1,
				MaxPrice:      50000,
				SourceTimeout: 6 * time.Second,
			},
		}
	}

	t.Run("accepts valid config", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects negative min_score", func(t *testing.T) {
		cfg := valid()
		cfg.Compare.MinScore = -0.1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("rejects zero source timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Compare.SourceTimeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})

	t.Run("rejects missing reader base URL", func(t *testing.T) {
		cfg := valid()
		cfg.Reader.BaseURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error")
		}
	})
}
