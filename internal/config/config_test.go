package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set test environment variables (auto-cleaned up after test)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_SIGNATURE", "@testchannel")
	t.Setenv("LINK_DELAY", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.TelegramBotToken != "123:abc" {
		t.Errorf("Expected 123:abc, got %s", cfg.TelegramBotToken)
	}
	if cfg.ChannelSignature != "@testchannel" {
		t.Errorf("Expected @testchannel, got %s", cfg.ChannelSignature)
	}
	if cfg.LinkDelay != 2*time.Second {
		t.Errorf("Expected 2s, got %s", cfg.LinkDelay)
	}
	if cfg.DedupCap != 200 {
		t.Errorf("Expected default DedupCap 200, got %d", cfg.DedupCap)
	}
	if cfg.DefaultPin != "110001" {
		t.Errorf("Expected default pin 110001, got %s", cfg.DefaultPin)
	}
	if cfg.HTTPTimeout != 20*time.Second {
		t.Errorf("Expected default HTTP timeout 20s, got %s", cfg.HTTPTimeout)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() should return an error when TELEGRAM_BOT_TOKEN is not set")
	}
}

func TestLoad_InvalidDedupCap(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DEDUP_CAP", "lots")

	_, err := Load()
	if err == nil {
		t.Error("Load() should return error for invalid DEDUP_CAP")
	}
}

func TestLoad_InvalidLinkDelay(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LINK_DELAY", "fast")

	_, err := Load()
	if err == nil {
		t.Error("Load() should return error for invalid LINK_DELAY")
	}
}
